package card

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

// ParseDesign decodes a design from JSON. A design without an id is assigned a
// fresh UUID so output names stay unique.
func ParseDesign(r io.Reader) (*Design, error) {
	var d Design
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode design")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return &d, nil
}

// ReadDesignFile reads a design from a JSON file.
func ReadDesignFile(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError(path, err)
	}
	defer f.Close()
	return ParseDesign(f)
}

// ParseRecipient decodes a recipient address from JSON.
func ParseRecipient(r io.Reader) (*RecipientAddress, error) {
	var a RecipientAddress
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAddress, err, "decode recipient")
	}
	return &a, nil
}

// ReadRecipientFile reads a recipient address from a JSON file.
func ReadRecipientFile(path string) (*RecipientAddress, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError(path, err)
	}
	defer f.Close()
	return ParseRecipient(f)
}

// ParseOrders decodes either a JSON array of orders or an object with an
// "orders" array, the shape the admin batch endpoint accepts.
func ParseOrders(r io.Reader) ([]Order, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read orders")
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		var wrapped struct {
			Orders []Order `json:"orders"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode orders")
		}
		orders = wrapped.Orders
	}

	for i := range orders {
		if orders[i].ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidOrder, "order %d has no id", i)
		}
		if orders[i].CardDesign.ID == "" {
			orders[i].CardDesign.ID = orders[i].CardDesignID
		}
	}
	return orders, nil
}

// ReadOrdersFile reads orders from a JSON file.
func ReadOrdersFile(path string) ([]Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError(path, err)
	}
	defer f.Close()
	return ParseOrders(f)
}

func fileError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
