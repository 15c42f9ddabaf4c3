package models

import (
	"time"

	"gorm.io/gorm"
)

// Enumerated profile attributes. Zero is always the "unselected" sentinel so
// a freshly created profile carries no demographic information.
type (
	// Gender is the self-reported gender choice.
	Gender int
	// Workplace is the prefecture the user works in.
	Workplace int
	// Occupation is the employment category.
	Occupation int
	// Industry is the business sector.
	Industry int
	// Position is the job role category.
	Position int
)

// GenderLabels maps Gender values to display labels. Index 0 is "unselected".
var GenderLabels = []string{"Unselected", "Male", "Female", "Other"}

// WorkplaceLabels maps Workplace values to the 47 prefectures, with
// "unselected" at index 0.
var WorkplaceLabels = []string{
	"Unselected",
	"Hokkaido", "Aomori", "Iwate", "Miyagi", "Akita", "Yamagata", "Fukushima",
	"Ibaraki", "Tochigi", "Gunma", "Saitama", "Chiba", "Tokyo", "Kanagawa",
	"Niigata", "Toyama", "Ishikawa", "Fukui", "Yamanashi", "Nagano", "Gifu",
	"Shizuoka", "Aichi", "Mie", "Shiga", "Kyoto", "Osaka", "Hyogo", "Nara",
	"Wakayama", "Tottori", "Shimane", "Okayama", "Hiroshima", "Yamaguchi",
	"Tokushima", "Kagawa", "Ehime", "Kochi", "Fukuoka", "Saga", "Nagasaki",
	"Kumamoto", "Oita", "Miyazaki", "Kagoshima", "Okinawa",
}

// OccupationLabels maps Occupation values to display labels.
var OccupationLabels = []string{
	"Unselected", "Company executive", "Company employee (management)",
	"Company employee (general)", "Civil servant", "Organization staff",
	"Licensed professional", "Self-employed", "Temporary/contract worker",
	"Part-time worker", "Homemaker", "Student", "Retired", "Unemployed", "Other",
}

// IndustryLabels maps Industry values to display labels.
var IndustryLabels = []string{
	"Unselected", "Agriculture/forestry/fishery/mining", "Civil engineering/construction",
	"Manufacturing", "Real estate", "Services", "Wholesale/retail",
	"Food and beverage", "Transportation", "Finance/insurance",
	"Information and communications", "Education/medical", "Publishing/printing",
	"Electricity/gas/water/heat supply", "Public sector/organizations", "Other",
}

// PositionLabels maps Position values to display labels.
var PositionLabels = []string{
	"Unselected", "IT engineer", "Web/internet/games", "Creative",
	"Consulting/finance/real estate specialist", "Planning/management",
	"Childcare/education/interpretation", "Public services", "Medical/welfare",
	"Pharmaceuticals/food/chemicals/materials", "Sales",
	"Architecture/civil engineering", "Skilled trades/facilities/delivery/agriculture",
	"Administration/office work", "Beauty/bridal/hotel/transport",
	"Retail/food service/amusement", "Electrical/electronics/machinery/semiconductors",
	"Homemaker", "Student", "Unemployed", "Other",
}

// Valid reports whether the value is inside the closed enumeration.
func (g Gender) Valid() bool     { return int(g) >= 0 && int(g) < len(GenderLabels) }
func (w Workplace) Valid() bool  { return int(w) >= 0 && int(w) < len(WorkplaceLabels) }
func (o Occupation) Valid() bool { return int(o) >= 0 && int(o) < len(OccupationLabels) }
func (i Industry) Valid() bool   { return int(i) >= 0 && int(i) < len(IndustryLabels) }
func (p Position) Valid() bool   { return int(p) >= 0 && int(p) < len(PositionLabels) }

// Label returns the display label, or the unselected label for out-of-range values.
func (g Gender) Label() string {
	if !g.Valid() {
		return GenderLabels[0]
	}
	return GenderLabels[g]
}

func (w Workplace) Label() string {
	if !w.Valid() {
		return WorkplaceLabels[0]
	}
	return WorkplaceLabels[w]
}

func (o Occupation) Label() string {
	if !o.Valid() {
		return OccupationLabels[0]
	}
	return OccupationLabels[o]
}

func (i Industry) Label() string {
	if !i.Valid() {
		return IndustryLabels[0]
	}
	return IndustryLabels[i]
}

func (p Position) Label() string {
	if !p.Valid() {
		return PositionLabels[0]
	}
	return PositionLabels[p]
}

// DefaultDisplayName is used for profiles until the user picks a name.
const DefaultDisplayName = "Anonymous"

// Field limits for profile edits, matching the storage schema.
const (
	MaxProfileNameLen  = 30
	MaxIntroductionLen = 255
)

// Profile is the public-facing record companion to a User. Exactly one
// profile exists per user; it is created in the same transaction as the user.
type Profile struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Username     string     `gorm:"unique;not null;size:30" json:"username"`
	Name         string     `gorm:"not null;size:30" json:"name"`
	Introduction string     `gorm:"size:255" json:"introduction"`
	AvatarPath   string     `json:"avatar_path"`
	Gender       Gender     `gorm:"default:0" json:"gender"`
	Workplace    Workplace  `gorm:"default:0" json:"workplace"`
	Occupation   Occupation `gorm:"default:0" json:"occupation"`
	Industry     Industry   `gorm:"default:0" json:"industry"`
	Position     Position   `gorm:"default:0" json:"position"`
	Birth        *time.Time `json:"birth,omitempty"`
	Age          *int       `json:"age,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AgeAt computes the whole-year age for a birth date as observed on the given
// day: the year difference, minus one when the birthday has not yet occurred
// this year.
func AgeAt(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if monthDayBefore(today, birth) {
		age--
	}
	return age
}

// monthDayBefore reports whether a's (month, day) sorts before b's.
func monthDayBefore(a, b time.Time) bool {
	if a.Month() != b.Month() {
		return a.Month() < b.Month()
	}
	return a.Day() < b.Day()
}

// RecomputeAge refreshes the derived Age field from Birth. It runs on every
// save so Age can never drift from Birth. Age is cleared when Birth is unset.
func (p *Profile) RecomputeAge(today time.Time) {
	if p.Birth == nil {
		p.Age = nil
		return
	}
	age := AgeAt(*p.Birth, today)
	p.Age = &age
}
