package controller

import (
	ozzo "github.com/go-ozzo/ozzo-validation"

	"entrylog/internal/api"
)

// Form mirrors the input controls.
type Form struct {
	PersonName string
	PlaceFrom  string
	PlaceTo    string
}

// Panels holds the visibility of the two optional panels. Both start
// hidden and nothing about them is persisted.
type Panels struct {
	Names  bool
	Places bool
}

type newEntryRequest struct {
	Type       string `json:"type"`
	PersonName string `json:"person_name"`
}

func (r newEntryRequest) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Type, ozzo.Required, ozzo.In(api.TypeEntry, api.TypeExit)),
		ozzo.Field(&r.PersonName, ozzo.Required),
	)
}

func validateNewEntry(e api.NewEntry) error {
	return newEntryRequest{Type: e.Type, PersonName: e.PersonName}.Validate()
}

// validationMessage picks the message shown for a rejected form. A missing
// name wins over a bad type.
func validationMessage(err error) string {
	errs, ok := err.(ozzo.Errors)
	if !ok {
		return err.Error()
	}
	if _, missing := errs["person_name"]; missing {
		return msgNameRequired
	}
	if _, bad := errs["type"]; bad {
		return msgInvalidType
	}
	return err.Error()
}
