package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/buildinfo"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/pipeline"
)

type generatePDFRequest struct {
	CardDesign *card.Design `json:"cardDesign"`
	OrderID    string       `json:"orderId,omitempty"`
}

type generateEnvelopeRequest struct {
	Recipient *card.RecipientAddress `json:"recipient"`
	OrderID   string                 `json:"orderId"`
}

type pdfResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type batchRequest struct {
	Action string       `json:"action"`
	Orders []card.Order `json:"orders"`
}

type batchPDF struct {
	OrderID  string `json:"orderId"`
	ShortID  string `json:"shortId"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type batchError struct {
	OrderID string `json:"orderId"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

type batchResponse struct {
	PDFs   []batchPDF   `json:"pdfs"`
	Errors []batchError `json:"errors,omitempty"`
}

var batchActions = map[string]pipeline.BatchKind{
	"downloadCards":     pipeline.KindCards,
	"downloadEnvelopes": pipeline.KindEnvelopes,
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) generatePDF(w http.ResponseWriter, r *http.Request) {
	var req generatePDFRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.CardDesign == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidDesign, "cardDesign is required"))
		return
	}

	res, err := s.Runner.RenderCard(r.Context(), req.CardDesign, req.OrderID, s.pdfOptions())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pdfResponse{URL: dataURL(res.PDF()), Filename: res.Filename})
}

func (s *Server) generateEnvelope(w http.ResponseWriter, r *http.Request) {
	var req generateEnvelopeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.OrderID == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidOrder, "orderId is required"))
		return
	}

	res, err := s.Runner.RenderEnvelope(r.Context(), req.Recipient, req.OrderID, s.pdfOptions())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pdfResponse{URL: dataURL(res.PDF()), Filename: res.Filename})
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kind, ok := batchActions[req.Action]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid action %q", req.Action))
		return
	}
	for i, o := range req.Orders {
		if o.ID == "" {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidOrder, "order %d has no id", i))
			return
		}
		if o.CardDesign.ID == "" {
			req.Orders[i].CardDesign.ID = o.CardDesignID
		}
	}

	start := time.Now()
	results := s.Runner.Batch(r.Context(), kind, req.Orders, s.pdfOptions(), s.Concurrency)

	resp := batchResponse{PDFs: []batchPDF{}}
	for _, res := range results {
		if res.Err != nil {
			resp.Errors = append(resp.Errors, batchError{
				OrderID: res.OrderID,
				Error:   errors.UserMessage(res.Err),
				Code:    string(errors.GetCode(res.Err)),
			})
			continue
		}
		resp.PDFs = append(resp.PDFs, batchPDF{
			OrderID:  res.OrderID,
			ShortID:  res.ShortID,
			URL:      dataURL(res.Result.PDF()),
			Filename: res.Result.Filename,
		})
	}

	sum := pipeline.Summarize(results, time.Since(start))
	s.Logger.Info("batch complete",
		"action", req.Action,
		"total", sum.Total,
		"failed", sum.Failed,
		"cached", sum.CacheHits,
		"duration", sum.Duration)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) pdfOptions() pipeline.Options {
	return pipeline.Options{Formats: []string{pipeline.FormatPDF}, Logger: s.Logger}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", maxErr.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func dataURL(pdf []byte) string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdf)
}
