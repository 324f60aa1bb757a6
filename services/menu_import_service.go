package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/models"
	"github.com/yeremiapane/kokum-coast/utils"
)

// MaxImportRows caps the data rows accepted from one spreadsheet.
const MaxImportRows = 500

// Spreadsheet columns, after a header row.
const (
	colName = iota
	colCategory
	colPrice
	colDescription
	colVeg
	colSpicyLevel
	colTags
	colImage
)

type MenuImportService struct {
	store database.Store
	now   func() time.Time
}

func NewMenuImportService(store database.Store) *MenuImportService {
	return &MenuImportService{store: store, now: time.Now}
}

// Import validates every row first and inserts only when all rows pass.
func (s *MenuImportService) Import(ctx context.Context, r io.Reader) (int, error) {
	items, err := ParseMenuSheet(r)
	if err != nil {
		return 0, err
	}

	coll := s.store.Collection(models.MenuCollection)
	for i := range items {
		items[i].Prepare(s.now())
		if _, err := coll.InsertOne(ctx, &items[i]); err != nil {
			return i, utils.NewStoreFailure(err)
		}
	}
	utils.InfoLogger.Printf("Imported %d menu items from spreadsheet", len(items))
	return len(items), nil
}

// ParseMenuSheet reads the first sheet of an xlsx workbook into menu
// items. Row errors are collected into one ValidationError.
func ParseMenuSheet(r io.Reader) ([]models.MenuItem, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: file is not a readable xlsx workbook", utils.ErrBadRequest)
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", utils.ErrBadRequest)
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrBadRequest, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet must have a header row and at least one data row", utils.ErrBadRequest)
	}
	if len(rows)-1 > MaxImportRows {
		return nil, fmt.Errorf("%w: at most %d rows per import", utils.ErrBadRequest, MaxImportRows)
	}

	var items []models.MenuItem
	var problems []utils.FieldError
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		label := fmt.Sprintf("row %d", i+2)
		item, fieldErrs := parseMenuRow(row, label)
		if len(fieldErrs) == 0 {
			if err := models.Validate(&item); err != nil {
				fieldErrs = utils.NewValidationError(err, label).Fields
			}
		}
		if len(fieldErrs) > 0 {
			problems = append(problems, fieldErrs...)
			continue
		}
		items = append(items, item)
	}

	if len(problems) > 0 {
		return nil, &utils.ValidationError{Fields: problems}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no data rows found", utils.ErrBadRequest)
	}
	return items, nil
}

func parseMenuRow(row []string, label string) (models.MenuItem, []utils.FieldError) {
	var item models.MenuItem
	var errs []utils.FieldError
	bad := func(field, rule, msg string) {
		errs = append(errs, utils.FieldError{Field: label + ": " + field, Rule: rule, Message: msg})
	}

	item.Name = cell(row, colName)
	item.Category = cell(row, colCategory)

	if raw := cell(row, colPrice); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
			bad("price", "type", "must be a number")
		} else {
			item.Price = &price
		}
	}
	if raw := cell(row, colDescription); raw != "" {
		item.Description = &raw
	}
	if raw := cell(row, colVeg); raw != "" {
		veg, ok := parseYesNo(raw)
		if !ok {
			bad("veg", "type", "must be yes/no or true/false")
		}
		item.Veg = veg
	}
	if raw := cell(row, colSpicyLevel); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			bad("spicy_level", "type", "must be a whole number")
		} else {
			item.SpicyLevel = &level
		}
	}
	if raw := cell(row, colTags); raw != "" {
		for _, tag := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
			if tag = strings.TrimSpace(tag); tag != "" {
				item.Tags = append(item.Tags, tag)
			}
		}
	}
	if raw := cell(row, colImage); raw != "" {
		item.Image = &raw
	}
	return item, errs
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1", "veg":
		return true, true
	case "no", "n", "false", "0", "non-veg", "nonveg":
		return false, true
	}
	return false, false
}
