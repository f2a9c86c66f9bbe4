package bulk

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Kind names an importable collection.
type Kind string

const (
	KindProducts  Kind = "products"
	KindCustomers Kind = "customers"
)

var (
	productRequired  = []string{"id", "name", "price", "description", "category"}
	customerRequired = []string{"id"}
)

// ParseKind accepts "products" or "customers".
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindProducts:
		return KindProducts, nil
	case KindCustomers:
		return KindCustomers, nil
	}
	return "", fmt.Errorf("unknown import kind %q", raw)
}

// RowError reports one rejected row. Row is the line number in the file,
// counting the header as line 1.
type RowError struct {
	Row   int    `json:"row"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// Report summarizes an import run.
type Report struct {
	Kind     Kind       `json:"kind"`
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// Err folds every row error into one error, or nil when all rows imported.
func (r Report) Err() error {
	var err error
	for _, rowErr := range r.Errors {
		err = multierr.Append(err, fmt.Errorf("row %d (%s): %s", rowErr.Row, rowErr.ID, rowErr.Error))
	}
	return err
}

// ProductUpserter applies a partial product to the row with id, creating it
// when missing. Nil fields keep their stored value.
type ProductUpserter interface {
	Upsert(ctx context.Context, id string, patch catalog.UpdateProductInput) (*catalog.Product, error)
}

type CustomerUpserter interface {
	Upsert(ctx context.Context, id string, patch customers.UpdateCustomerInput) (*customers.Customer, error)
}

// Importer loads product and customer CSV files row by row, upserting each
// valid row and collecting an error for each invalid one.
type Importer struct {
	products  ProductUpserter
	customers CustomerUpserter
	metrics   *metrics.Metrics
	logg      *logger.Logger
	validate  *validator.Validate
}

func NewImporter(products ProductUpserter, customers CustomerUpserter, m *metrics.Metrics, logg *logger.Logger) (*Importer, error) {
	if products == nil {
		return nil, fmt.Errorf("product upserter required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer upserter required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Importer{products: products, customers: customers, metrics: m, logg: logg, validate: validate}, nil
}

// Import dispatches on kind.
func (i *Importer) Import(ctx context.Context, kind Kind, r io.Reader) (*Report, error) {
	switch kind {
	case KindProducts:
		return i.ImportProducts(ctx, r)
	case KindCustomers:
		return i.ImportCustomers(ctx, r)
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown import kind %q", kind))
}

func (i *Importer) ImportProducts(ctx context.Context, r io.Reader) (*Report, error) {
	return i.run(ctx, KindProducts, r, productRequired, func(ctx context.Context, row record) error {
		id, patch, err := productPatch(row)
		if err != nil {
			return err
		}
		if err := i.check(patch); err != nil {
			return err
		}
		_, err = i.products.Upsert(ctx, id, patch)
		return err
	})
}

func (i *Importer) ImportCustomers(ctx context.Context, r io.Reader) (*Report, error) {
	return i.run(ctx, KindCustomers, r, customerRequired, func(ctx context.Context, row record) error {
		id := row.get("id")
		if id == "" {
			return errors.New("id is required")
		}
		patch := customerPatch(row)
		if err := i.check(patch); err != nil {
			return err
		}
		_, err := i.customers.Upsert(ctx, id, patch)
		return err
	})
}

func (i *Importer) run(ctx context.Context, kind Kind, r io.Reader, required []string, apply func(context.Context, record) error) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv file is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv header")
	}
	columns := indexHeader(header)
	if missing := missingColumns(columns, required); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv is missing required columns").
			WithDetails(map[string]any{"missing": missing})
	}

	report := &Report{Kind: kind, Errors: []RowError{}}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if !errors.As(readErr, &parseErr) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, readErr, "read csv")
			}
			report.fail(parseErr.StartLine, "", parseErr.Err.Error())
			continue
		}
		row := record{columns: columns, fields: fields}
		if row.blank() {
			continue
		}
		line, _ := reader.FieldPos(0)
		if err := apply(ctx, row); err != nil {
			report.fail(line, row.get("id"), rowMessage(err))
			continue
		}
		report.Imported++
	}

	i.metrics.AddImportedRows(string(kind), report.Imported, report.Failed)
	i.logg.Info(i.logg.WithFields(ctx, map[string]any{
		"kind":     string(kind),
		"imported": report.Imported,
		"failed":   report.Failed,
	}), "csv.import_completed")
	return report, nil
}

func (r *Report) fail(line int, id, message string) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Row: line, ID: id, Error: message})
}

func (i *Importer) check(input any) error {
	err := i.validate.Struct(input)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	parts := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		parts = append(parts, fmt.Sprintf("%s: failed %s", fieldErr.Field(), fieldErr.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}

// rowMessage flattens typed validation details into a single line.
func rowMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err.Error()
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || len(details) == 0 {
		return typed.Message()
	}
	keys := make([]string, 0, len(details))
	for key := range details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+details[key])
	}
	return strings.Join(parts, "; ")
}

type record struct {
	columns map[string]int
	fields  []string
}

func (r record) get(column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r record) has(column string) bool {
	_, ok := r.columns[column]
	return ok
}

func (r record) blank() bool {
	for _, field := range r.fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// normalizeColumn folds "unitsPerBulk", "units_per_bulk" and "Units Per Bulk" together.
func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		key := normalizeColumn(name)
		if key == "" {
			continue
		}
		if _, dup := columns[key]; !dup {
			columns[key] = idx
		}
	}
	return columns
}

func missingColumns(columns map[string]int, required []string) []string {
	missing := []string{}
	for _, name := range required {
		if _, ok := columns[normalizeColumn(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// productPatch always carries the required columns. Optional columns that
// are absent from the header, or hold an empty number, flag, image list or
// specification cell, leave the stored value alone.
func productPatch(row record) (string, catalog.UpdateProductInput, error) {
	id := row.get("id")
	if id == "" {
		return "", catalog.UpdateProductInput{}, errors.New("id is required")
	}
	name, description, category := row.get("name"), row.get("description"), row.get("category")
	patch := catalog.UpdateProductInput{
		Name:        &name,
		Description: &description,
		Category:    &category,
	}

	price, err := decimal.NewFromString(row.get("price"))
	if err != nil {
		return id, patch, fmt.Errorf("price %q is not a number", row.get("price"))
	}
	patch.Price = &price

	if raw := row.get("images"); raw != "" {
		images := []string{}
		for _, image := range strings.Split(raw, "|") {
			if image = strings.TrimSpace(image); image != "" {
				images = append(images, image)
			}
		}
		patch.Images = &images
	}
	if raw := row.get("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return id, patch, fmt.Errorf("stock %q is not an integer", raw)
		}
		patch.Stock = &stock
	}
	if row.has("vendor") {
		vendor := row.get("vendor")
		patch.Vendor = &vendor
	}
	if row.has("visible") {
		visible, err := parseBool(row.get("visible"))
		if err != nil {
			return id, patch, err
		}
		patch.Visible = visible
	}
	if raw := row.get("unitsperbulk"); raw != "" {
		units, err := strconv.Atoi(raw)
		if err != nil {
			return id, patch, fmt.Errorf("unitsPerBulk %q is not an integer", raw)
		}
		patch.UnitsPerBulk = &units
	}
	if raw := row.get("specifications"); raw != "" {
		specs, err := types.ParseSpecifications(raw)
		if err != nil {
			return id, patch, err
		}
		patch.Specifications = &specs
	}
	return id, patch, nil
}

// customerPatch sets only the profile fields whose column is in the header.
// A present but empty cell clears the field.
func customerPatch(row record) customers.UpdateCustomerInput {
	column := func(name string) *string {
		if !row.has(name) {
			return nil
		}
		value := row.get(name)
		return &value
	}
	return customers.UpdateCustomerInput{
		FirstName:  column("firstname"),
		LastName:   column("lastname"),
		Email:      column("email"),
		Phone:      column("phone"),
		Address:    column("address"),
		City:       column("city"),
		Province:   column("province"),
		PostalCode: column("postalcode"),
		Notes:      column("notes"),
	}
}

func parseBool(raw string) (*bool, error) {
	var value bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "true", "1", "si", "sí", "yes":
		value = true
	case "false", "0", "no":
		value = false
	default:
		return nil, fmt.Errorf("visible %q must be true or false", raw)
	}
	return &value, nil
}
