package builders

import (
	"strings"

	"campusnest/constants"

	"gorm.io/gorm"
)

// orderable maps the public ordering keys to columns.
var orderable = map[string]string{
	"name":      "name",
	"latitude":  "latitude",
	"longitude": "longitude",
}

// HousingQueryBuilder narrows a housings query from listing filters.
type HousingQueryBuilder struct {
	db      *gorm.DB
	order   string
	invalid string
}

func NewHousingQueryBuilder(db *gorm.DB) *HousingQueryBuilder {
	return &HousingQueryBuilder{db: db, order: "id ASC"}
}

func (b *HousingQueryBuilder) WithCampus(campusID *uint) *HousingQueryBuilder {
	if campusID != nil {
		b.db = b.db.Where("campus_id = ?", *campusID)
	}
	return b
}

func (b *HousingQueryBuilder) WithType(t constants.HousingType) *HousingQueryBuilder {
	if t != "" {
		b.db = b.db.Where("type = ?", t)
	}
	return b
}

// WithSearch matches the term case-insensitively against the name, both
// address lines and the county.
func (b *HousingQueryBuilder) WithSearch(term string) *HousingQueryBuilder {
	term = strings.TrimSpace(term)
	if term == "" {
		return b
	}
	like := "%" + strings.ToLower(term) + "%"
	b.db = b.db.Where(
		"LOWER(name) LIKE ? OR LOWER(address_line1) LIKE ? OR LOWER(COALESCE(address_line2, '')) LIKE ? OR LOWER(county) LIKE ?",
		like, like, like, like,
	)
	return b
}

// WithIDs restricts the query to the given housings. An empty list matches
// nothing.
func (b *HousingQueryBuilder) WithIDs(ids []uint) *HousingQueryBuilder {
	if len(ids) == 0 {
		b.db = b.db.Where("1 = 0")
		return b
	}
	b.db = b.db.Where("id IN ?", ids)
	return b
}

// WithOrdering accepts "name", "-name", "latitude", "-longitude" and so on.
// Unknown keys are remembered and reported by Err.
func (b *HousingQueryBuilder) WithOrdering(ordering string) *HousingQueryBuilder {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return b
	}
	dir := "ASC"
	key := ordering
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
		key = ordering[1:]
	}
	col, ok := orderable[key]
	if !ok {
		b.invalid = ordering
		return b
	}
	b.order = col + " " + dir + ", id ASC"
	return b
}

// InvalidOrdering returns the rejected ordering key, if any.
func (b *HousingQueryBuilder) InvalidOrdering() string {
	return b.invalid
}

// Query returns the filtered query without ordering, for counting.
func (b *HousingQueryBuilder) Query() *gorm.DB {
	return b.db
}

// Page returns the ordered query limited to one page.
func (b *HousingQueryBuilder) Page(page, limit int) *gorm.DB {
	return b.db.Order(b.order).Offset((page - 1) * limit).Limit(limit)
}
