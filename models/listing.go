package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"stayhub-backend/utils"
)

// Listing is a rentable property owned by a host. The booked-date set holds
// the individual calendar days currently reserved against the listing; it is
// mutated only by the booking orchestrator.
type Listing struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	HostID        uint           `gorm:"index;column:host_id" json:"host_id"`
	Title         string         `gorm:"column:title;size:128" json:"title"`
	Description   string         `gorm:"column:description;type:text" json:"description"`
	Location      string         `gorm:"column:location;size:128" json:"location"`
	PricePerNight float64        `gorm:"column:price_per_night" json:"price_per_night"`
	MaxGuests     int            `gorm:"column:max_guests" json:"max_guests"`
	Bedrooms      int            `gorm:"column:bedrooms" json:"bedrooms"`
	Bathrooms     int            `gorm:"column:bathrooms" json:"bathrooms"`
	Amenities     datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`
	BookedDates   datatypes.JSON `gorm:"column:booked_dates" json:"booked_dates,omitempty"`
	Active        bool           `gorm:"column:active;default:true" json:"active"`
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	return items
}

func encodeStringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

// AmenityList decodes the amenity labels.
func (l *Listing) AmenityList() []string {
	return decodeStringList(l.Amenities)
}

// SetAmenityList replaces the amenity labels.
func (l *Listing) SetAmenityList(items []string) {
	l.Amenities = encodeStringList(items)
}

// BookedDateSet decodes the booked-date column into a membership set keyed
// by "2006-01-02" day strings.
func (l *Listing) BookedDateSet() map[string]bool {
	set := make(map[string]bool)
	for _, d := range decodeStringList(l.BookedDates) {
		set[d] = true
	}
	return set
}

// SetBookedDateSet re-encodes the booked-date column from a membership set.
// Days are stored sorted so the column is deterministic.
func (l *Listing) SetBookedDateSet(set map[string]bool) {
	days := make([]string, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Strings(days)
	l.BookedDates = encodeStringList(days)
}

// IsAvailable reports whether no day of the half-open range [start, end) is
// present in the booked-date set. It is a pure membership check; conflicts
// with live bookings are checked separately by the orchestrator.
func (l *Listing) IsAvailable(start, end time.Time) bool {
	set := l.BookedDateSet()
	for _, day := range utils.DaysInRange(start, end) {
		if set[utils.FormatDate(day)] {
			return false
		}
	}
	return true
}

const listingRecordFields = 12

// ToRecord encodes the listing as one flat-file line. Amenities and booked
// dates are semicolon-joined inside their fields.
func (l *Listing) ToRecord() string {
	return utils.JoinFields(
		strconv.FormatUint(uint64(l.ID), 10),
		strconv.FormatUint(uint64(l.HostID), 10),
		l.Title,
		l.Description,
		l.Location,
		strconv.FormatFloat(l.PricePerNight, 'f', -1, 64),
		strconv.Itoa(l.MaxGuests),
		strconv.Itoa(l.Bedrooms),
		strconv.Itoa(l.Bathrooms),
		utils.JoinList(l.AmenityList()),
		utils.JoinList(decodeStringList(l.BookedDates)),
		strconv.FormatBool(l.Active),
	)
}

// ListingFromRecord decodes one flat-file line back into a listing.
func ListingFromRecord(line string) (Listing, error) {
	parts, err := utils.SplitFields(line, listingRecordFields)
	if err != nil {
		return Listing{}, err
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Listing{}, err
	}
	hostID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Listing{}, err
	}
	price, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return Listing{}, err
	}
	maxGuests, err := strconv.Atoi(parts[6])
	if err != nil {
		return Listing{}, err
	}
	bedrooms, err := strconv.Atoi(parts[7])
	if err != nil {
		return Listing{}, err
	}
	bathrooms, err := strconv.Atoi(parts[8])
	if err != nil {
		return Listing{}, err
	}
	active, err := strconv.ParseBool(parts[11])
	if err != nil {
		return Listing{}, err
	}
	listing := Listing{
		ID:            uint(id),
		HostID:        uint(hostID),
		Title:         parts[2],
		Description:   parts[3],
		Location:      parts[4],
		PricePerNight: price,
		MaxGuests:     maxGuests,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		Active:        active,
	}
	listing.SetAmenityList(utils.SplitList(parts[9]))
	listing.BookedDates = encodeStringList(utils.SplitList(parts[10]))
	return listing, nil
}
