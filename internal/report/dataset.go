package report

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Entry is one element of a record's nested collection, reduced to the shape
// every report variant shares.
type Entry struct {
	Key      string
	Value    float64
	Selected bool
}

// SourceRecord is one requisition line as received from the backend.
type SourceRecord struct {
	DescriptionEN string
	DescriptionVN string
	OldCode       string
	NewCode       string
	Unit          string
	Remark        string
	RequestedQty  float64
	Suppliers     []Entry
	Departments   []Entry
}

// Dataset is the normalized export input.
type Dataset struct {
	Records []SourceRecord
	// TotalPercentHint is the backend's unfiltered total difference percentage, if sent.
	TotalPercentHint *float64
}

// Empty reports whether there is anything to export.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// Source selects which nested collection drives the dynamic column block.
type Source int

const (
	SourceSuppliers Source = iota
	SourceDepartments
)

func (s Source) String() string {
	switch s {
	case SourceSuppliers:
		return "suppliers"
	case SourceDepartments:
		return "departments"
	default:
		return "unknown"
	}
}

// Nested returns the record's collection for the given source. Never nil.
func (r SourceRecord) Nested(src Source) []Entry {
	var entries []Entry
	if src == SourceDepartments {
		entries = r.Departments
	} else {
		entries = r.Suppliers
	}
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// Backend field aliases. The comparison, monthly and summary endpoints name the
// same concepts differently.
var (
	aliasDescriptionEN = []string{"itemDescriptionEN", "englishName", "descriptionEN"}
	aliasDescriptionVN = []string{"itemDescriptionVN", "vietnameseName", "descriptionVN"}
	aliasOldCode       = []string{"oldSAPCode", "oldSapCode", "oldCode"}
	aliasNewCode       = []string{"newSAPCode", "hanaSAPCode", "newSapCode", "newCode"}
	aliasUnit          = []string{"unit", "uom"}
	aliasRemark        = []string{"remark", "remarkComparison", "note"}
	aliasRequestedQty  = []string{"requestQty", "totalRequestQty", "orderQty", "quantity"}

	aliasSuppliers   = []string{"suppliers", "supplierComparisonList", "supplierPrices"}
	aliasDepartments = []string{"departmentRequisitions", "departmentRequestQty", "departments"}

	aliasSupplierKey      = []string{"supplierName", "name"}
	aliasSupplierValue    = []string{"price", "unitPrice"}
	aliasSupplierSelected = []string{"isSelected", "selected"}

	aliasDepartmentKey   = []string{"departmentName", "name"}
	aliasDepartmentValue = []string{"qty", "quantity", "buy"}

	aliasRecordList   = []string{"data", "content", "items", "records"}
	aliasTotalPercent = []string{"totalDifferencePercentage", "totalDifferencePercent"}
)

// Normalize maps the raw backend payload into a Dataset. Empty, null and
// empty-array payloads yield an empty dataset rather than an error.
func Normalize(raw []byte) (*Dataset, error) {
	ds := &Dataset{Records: []SourceRecord{}}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ds, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, ErrInvalidDataset
	}

	root := gjson.ParseBytes(trimmed)
	list := root
	if root.IsObject() {
		list = lookup(root, aliasRecordList)
		if v, ok := numeric(lookup(root, aliasTotalPercent)); ok {
			ds.TotalPercentHint = &v
		}
	}
	if !list.IsArray() {
		return ds, nil
	}

	for _, item := range list.Array() {
		if !item.IsObject() {
			continue
		}
		ds.Records = append(ds.Records, normalizeRecord(item))
	}
	return ds, nil
}

func normalizeRecord(item gjson.Result) SourceRecord {
	return SourceRecord{
		DescriptionEN: text(lookup(item, aliasDescriptionEN)),
		DescriptionVN: text(lookup(item, aliasDescriptionVN)),
		OldCode:       text(lookup(item, aliasOldCode)),
		NewCode:       text(lookup(item, aliasNewCode)),
		Unit:          text(lookup(item, aliasUnit)),
		Remark:        text(lookup(item, aliasRemark)),
		RequestedQty:  number(lookup(item, aliasRequestedQty)),
		Suppliers:     entries(lookup(item, aliasSuppliers), aliasSupplierKey, aliasSupplierValue, aliasSupplierSelected),
		Departments:   entries(lookup(item, aliasDepartments), aliasDepartmentKey, aliasDepartmentValue, nil),
	}
}

// entries accepts either an array of objects or an object keyed by entry name.
func entries(v gjson.Result, keyAliases, valueAliases, selectedAliases []string) []Entry {
	out := []Entry{}
	switch {
	case v.IsArray():
		for _, e := range v.Array() {
			if !e.IsObject() {
				continue
			}
			entry := Entry{
				Key:   text(lookup(e, keyAliases)),
				Value: number(lookup(e, valueAliases)),
			}
			if selectedAliases != nil {
				entry.Selected = lookup(e, selectedAliases).Bool()
			}
			out = append(out, entry)
		}
	case v.IsObject():
		v.ForEach(func(key, value gjson.Result) bool {
			if !value.IsObject() {
				out = append(out, Entry{Key: key.String(), Value: number(value)})
				return true
			}
			// An explicit name inside the entry wins over the map key.
			entry := Entry{Key: text(lookup(value, keyAliases)), Value: number(lookup(value, valueAliases))}
			if entry.Key == "" {
				entry.Key = key.String()
			}
			if selectedAliases != nil {
				entry.Selected = lookup(value, selectedAliases).Bool()
			}
			out = append(out, entry)
			return true
		})
	}
	return out
}

// lookup returns the first alias present with a non-null value.
func lookup(v gjson.Result, aliases []string) gjson.Result {
	for _, a := range aliases {
		if r := v.Get(a); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func text(v gjson.Result) string {
	if v.Type == gjson.Null || v.IsObject() || v.IsArray() {
		return ""
	}
	return strings.TrimSpace(v.String())
}

func number(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number, gjson.String:
		return finite(v.Float())
	default:
		return 0
	}
}

// numeric reports the value of a JSON number or numeric string. Anything else,
// including "N/A", is treated as absent.
func numeric(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return finite(v.Float()), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
