package espo

import (
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Order is the sort direction of a list request.
type Order int

const (
	OrderAsc Order = iota + 1
	OrderDesc
)

// Token returns the wire form of the order ("asc" or "desc").
func (o Order) Token() string {
	switch o {
	case OrderAsc:
		return "asc"
	case OrderDesc:
		return "desc"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (o Order) String() string {
	return o.Token()
}

// ParseOrder parses "asc" or "desc" (case-insensitive).
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "asc":
		return OrderAsc, nil
	case "desc":
		return OrderDesc, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
	}
}

// Where is a single filter condition.
type Where struct {
	Type      FilterType
	Attribute string
	Value     Value

	nested []Where
}

// NewWhere creates a condition. The value is optional: operators such as
// IsTrue or IsNull take none.
func NewWhere(filterType FilterType, attribute string, value ...Value) Where {
	where := Where{Type: filterType, Attribute: attribute}
	if len(value) > 0 {
		where.Value = value[0]
	}

	return where
}

// Group combines conditions under an Or or And filter.
func Group(filterType FilterType, conditions ...Where) Where {
	nested := make([]Where, len(conditions))
	copy(nested, conditions)

	return Where{Type: filterType, nested: nested}
}

// Conditions returns the nested conditions of a group.
func (w Where) Conditions() []Where {
	return append([]Where(nil), w.nested...)
}

// HasValue reports whether the condition carries an operand.
func (w Where) HasValue() bool {
	return w.Value.IsValid() || w.nested != nil
}

// Validate checks that the condition is well formed.
func (w Where) Validate() error {
	err := validation.ValidateStruct(&w,
		validation.Field(&w.Type, validation.By(validateFilterType)),
		validation.Field(&w.Attribute, validation.Required.When(w.nested == nil).Error(ErrAttributeRequired.Error())),
	)
	if err != nil {
		return err
	}

	for i, condition := range w.nested {
		if err := condition.Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}

	return nil
}

func validateFilterType(value interface{}) error {
	filterType, _ := value.(FilterType)
	if !filterType.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownFilterType, int(filterType))
	}

	return nil
}

// object renders the condition as the nested structure EspoCRM expects.
func (w Where) object() (Value, error) {
	if !w.Type.Valid() {
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownFilterType, int(w.Type))
	}

	fields := []Field{{Key: "type", Value: String(w.Type.Token())}}

	if w.Attribute != "" || w.nested == nil {
		fields = append(fields, Field{Key: "attribute", Value: String(w.Attribute)})
	}

	switch {
	case w.nested != nil:
		items := make([]Value, 0, len(w.nested))

		for _, condition := range w.nested {
			item, err := condition.object()
			if err != nil {
				return Value{}, err
			}

			items = append(items, item)
		}

		fields = append(fields, Field{Key: "value", Value: Array(items...)})
	case w.Value.IsValid():
		fields = append(fields, Field{Key: "value", Value: w.Value})
	}

	return Object(fields...), nil
}

// MarshalJSON encodes the condition as {"type", "attribute", "value"}.
func (w Where) MarshalJSON() ([]byte, error) {
	object, err := w.object()
	if err != nil {
		return nil, err
	}

	return json.Marshal(object)
}

// Params is the query bag of a list request. Absent fields are nil and are
// left out of the query string.
type Params struct {
	Offset         *int64
	MaxSize        *int64
	Select         *string
	Where          []Where
	PrimaryFilter  *string
	BoolFilterList []string
	Order          *Order
	OrderBy        *string
}

// NewParams creates an empty parameter set.
func NewParams() *Params {
	return &Params{}
}

// WithOffset sets the offset of the first record.
func (p *Params) WithOffset(offset int64) *Params {
	p.Offset = &offset

	return p
}

// WithMaxSize sets the maximum number of records returned.
func (p *Params) WithMaxSize(maxSize int64) *Params {
	p.MaxSize = &maxSize

	return p
}

// WithSelect sets the attributes to return.
func (p *Params) WithSelect(attributes ...string) *Params {
	selected := strings.Join(attributes, ",")
	p.Select = &selected

	return p
}

// WithWhere appends filter conditions.
func (p *Params) WithWhere(conditions ...Where) *Params {
	p.Where = append(p.Where, conditions...)

	return p
}

// WithPrimaryFilter sets the named primary filter.
func (p *Params) WithPrimaryFilter(name string) *Params {
	p.PrimaryFilter = &name

	return p
}

// WithBoolFilter appends named bool filters.
func (p *Params) WithBoolFilter(names ...string) *Params {
	p.BoolFilterList = append(p.BoolFilterList, names...)

	return p
}

// WithOrder sets the sort direction.
func (p *Params) WithOrder(order Order) *Params {
	p.Order = &order

	return p
}

// WithOrderBy sets the attribute to sort by.
func (p *Params) WithOrderBy(attribute string) *Params {
	p.OrderBy = &attribute

	return p
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}

	clone := &Params{
		Offset:        clonePtr(p.Offset),
		MaxSize:       clonePtr(p.MaxSize),
		Select:        clonePtr(p.Select),
		PrimaryFilter: clonePtr(p.PrimaryFilter),
		Order:         clonePtr(p.Order),
		OrderBy:       clonePtr(p.OrderBy),
	}

	if p.Where != nil {
		clone.Where = append([]Where(nil), p.Where...)
	}

	if p.BoolFilterList != nil {
		clone.BoolFilterList = append([]string(nil), p.BoolFilterList...)
	}

	return clone
}

// IsEmpty reports whether no field is set.
func (p *Params) IsEmpty() bool {
	return p == nil || (p.Offset == nil && p.MaxSize == nil && p.Select == nil && len(p.Where) == 0 &&
		p.PrimaryFilter == nil && len(p.BoolFilterList) == 0 && p.Order == nil && p.OrderBy == nil)
}

// Validate checks the order and every where condition.
func (p *Params) Validate() error {
	if p == nil {
		return nil
	}

	err := validation.ValidateStruct(p,
		validation.Field(&p.Order, validation.By(validateOrder)),
		validation.Field(&p.Where),
	)
	if err != nil {
		return fmt.Errorf("validating params: %w", err)
	}

	return nil
}

func validateOrder(value interface{}) error {
	order, ok := value.(*Order)
	if !ok || order == nil {
		return nil
	}

	if order.Token() == "" {
		return fmt.Errorf("%w: %d", ErrUnknownOrder, int(*order))
	}

	return nil
}

func clonePtr[T any](ptr *T) *T {
	if ptr == nil {
		return nil
	}

	value := *ptr

	return &value
}
