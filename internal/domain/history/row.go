// Package history holds the bounded, most-recent-first view of applied records.
package history

import (
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/janus/internal/domain/model"
)

// Facet names one of the three display fields of a record.
type Facet string

const (
	FacetValue Facet = "value"
	FacetUser  Facet = "user"
	FacetTime  Facet = "time"
)

// facetsPerRow is the fixed width of a rendered record.
const facetsPerRow = 3

// Class is a presentation marker attached to an element.
type Class string

const (
	ClassRecord   Class = "record"
	ClassNew      Class = "newRecord"
	ClassOwn      Class = "ownRecord"
	ClassPositive Class = "positive"
	ClassNegative Class = "negative"
)

// Element is one rendered facet of a record.
type Element struct {
	ID      string
	Facet   Facet
	Text    string
	Classes []Class
}

// Has reports whether the element carries class c.
func (e Element) Has(c Class) bool {
	return slices.Contains(e.Classes, c)
}

func (e Element) clone() Element {
	e.Classes = slices.Clone(e.Classes)
	return e
}

func (e *Element) remove(c Class) bool {
	i := slices.Index(e.Classes, c)
	if i < 0 {
		return false
	}
	e.Classes = slices.Delete(e.Classes, i, i+1)
	return true
}

// Row is the value, user and time-of-day triple of one record.
type Row struct {
	Record   model.UpdateRecord
	Elements [facetsPerRow]Element
}

// Own reports whether the row was built from the viewer's own record.
func (r Row) Own() bool {
	return r.Elements[0].Has(ClassOwn)
}

func (r Row) clone() Row {
	for i := range r.Elements {
		r.Elements[i] = r.Elements[i].clone()
	}
	return r
}

// NewRow classifies rec for display by id. Every element is marked new; the
// value element is positive only for a strictly positive change.
func NewRow(rec model.UpdateRecord, id model.Identity) Row {
	row := Row{Record: rec}
	texts := [facetsPerRow]struct {
		facet Facet
		text  string
	}{
		{FacetValue, strconv.FormatInt(rec.Value, 10)},
		{FacetUser, rec.User},
		{FacetTime, rec.TimeOfDay(id.Location)},
	}
	own := rec.IsOwn(id)

	for i, t := range texts {
		el := Element{
			ID:      uuid.NewString(),
			Facet:   t.facet,
			Text:    t.text,
			Classes: []Class{ClassRecord, ClassNew},
		}
		if own {
			el.Classes = append(el.Classes, ClassOwn)
		}
		if t.facet == FacetValue {
			if rec.Positive() {
				el.Classes = append(el.Classes, ClassPositive)
			} else {
				el.Classes = append(el.Classes, ClassNegative)
			}
		}
		row.Elements[i] = el
	}
	return row
}
