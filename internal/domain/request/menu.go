// Package request decodes and validates client payloads before they reach the store.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/warung/internal/domain/model"
)

// Client-facing messages.
const (
	MsgMalformed     = "Format data tidak valid"
	MsgNameRequired  = "Nama menu wajib diisi"
	MsgDescRequired  = "Deskripsi menu wajib diisi"
	MsgPriceRequired = "Harga menu wajib diisi"
	MsgPriceNumber   = "Harga harus berupa angka"
	MsgPricePositive = "Harga harus lebih dari 0"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps "<Field>.<tag>" validator failures to client messages.
var fieldMessages = map[string]string{
	"Name.required":        MsgNameRequired,
	"Description.required": MsgDescRequired,
	"Price.required":       MsgPriceRequired,
	"Price.gt":             MsgPricePositive,
}

// MenuBody is a decoded but not yet validated POST/PUT /api/menu body.
type MenuBody struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
	ImageID     string          `json:"imageId"`
	ImageIDAlt  string          `json:"image_id"`
	UserIDRaw   json.RawMessage `json:"userId"`
	UserIDAlt   json.RawMessage `json:"user_id"`

	userID *string
}

// Menu is a validated menu payload.
type Menu struct {
	Name        string
	Description string
	Price       float64
	ImageID     string
	UserID      *string
}

// Patch converts m into a store patch.
func (m Menu) Patch() model.Patch {
	return model.Patch{
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImageID:     m.ImageID,
	}
}

// Owner carries the caller identity of a DELETE body.
type Owner struct {
	UserIDRaw json.RawMessage `json:"userId"`
	UserIDAlt json.RawMessage `json:"user_id"`
}

// DecodeMenu parses a menu body. Only the JSON shape is checked here; field rules are
// applied by Validate so callers can resolve the target item first.
func DecodeMenu(r io.Reader) (MenuBody, error) {
	const op = "request.decode_menu"
	var body MenuBody
	if err := decode(r, &body); err != nil {
		return MenuBody{}, model.WrapKind(op, model.ErrValidation, MsgMalformed, err)
	}
	uid, err := parseUserID(firstRaw(body.UserIDRaw, body.UserIDAlt))
	if err != nil {
		return MenuBody{}, model.WrapKind(op, model.ErrValidation, MsgMalformed, err)
	}
	body.userID = uid
	return body, nil
}

// DecodeOwner parses an optional {userId} body. An empty body means no caller identity.
func DecodeOwner(r io.Reader) (*string, error) {
	const op = "request.decode_owner"
	var body Owner
	if err := decode(r, &body); err != nil {
		return nil, model.WrapKind(op, model.ErrValidation, MsgMalformed, err)
	}
	uid, err := parseUserID(firstRaw(body.UserIDRaw, body.UserIDAlt))
	if err != nil {
		return nil, model.WrapKind(op, model.ErrValidation, MsgMalformed, err)
	}
	return uid, nil
}

// UserID returns the caller identity supplied in the body, nil if absent.
func (b MenuBody) UserID() *string {
	return b.userID
}

// Validate applies the menu field rules: name and description non-empty, price a
// finite number greater than zero (accepted as JSON number or numeric string).
func (b MenuBody) Validate() (Menu, error) {
	const op = "request.validate_menu"

	price, err := parsePrice(b.Price)
	if err != nil {
		return Menu{}, model.WrapKind(op, model.ErrValidation, MsgPriceNumber, err)
	}

	fields := struct {
		Name        string   `validate:"required"`
		Description string   `validate:"required"`
		Price       *float64 `validate:"required,gt=0"`
	}{
		Name:        strings.TrimSpace(b.Name),
		Description: strings.TrimSpace(b.Description),
		Price:       price,
	}
	if err := validate.Struct(fields); err != nil {
		return Menu{}, model.WrapKind(op, model.ErrValidation, validationMessage(err), err)
	}

	imageID := strings.TrimSpace(b.ImageID)
	if imageID == "" {
		imageID = strings.TrimSpace(b.ImageIDAlt)
	}
	return Menu{
		Name:        fields.Name,
		Description: fields.Description,
		Price:       *fields.Price,
		ImageID:     imageID,
		UserID:      b.userID,
	}, nil
}

func decode(r io.Reader, v any) error {
	if r == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func firstRaw(vals ...json.RawMessage) json.RawMessage {
	for _, v := range vals {
		if !isNull(v) {
			return v
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// parsePrice returns nil when the price is absent or blank.
func parsePrice(raw json.RawMessage) (*float64, error) {
	if isNull(raw) {
		return nil, nil
	}
	t := bytes.TrimSpace(raw)

	var v float64
	if t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		v = f
	} else if err := json.Unmarshal(t, &v); err != nil {
		return nil, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("price is not finite")
	}
	return &v, nil
}

// parseUserID accepts a JSON string or number.
func parseUserID(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	t := bytes.TrimSpace(raw)
	if t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return nil, err
		}
		return model.StringPtr(strings.TrimSpace(s)), nil
	}
	var n json.Number
	if err := json.Unmarshal(t, &n); err != nil {
		return nil, errors.New("userId must be a string or number")
	}
	return model.StringPtr(n.String()), nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MsgMalformed
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
