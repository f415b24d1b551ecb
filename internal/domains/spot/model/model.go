package model

import (
	"fmt"
	"parking/shared/model"
	"regexp"
	"slices"
	"strconv"
)

const (
	TableName  = "parking_spots"
	EntityName = "spot"

	FieldID       = "id"
	FieldAreaID   = "area_id"
	FieldSequence = "sequence"
	FieldLabel    = "label"
	FieldStatus   = "status"
)

const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusOccupied  = "occupied"
)

var labelPattern = regexp.MustCompile(`^([A-Z]{3})-([1-9][0-9]*)$`)

type Spot struct {
	ID       string `db:"id"`
	AreaID   string `db:"area_id"`
	Sequence int    `db:"sequence"`
	Label    string `db:"label"`
	Status   string `db:"status"`
	model.Metadata
}

func (s Spot) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// SpotDetail is a spot joined with the area it belongs to.
type SpotDetail struct {
	Spot
	AreaName string `db:"area_name" table:"parking_areas" column:"name"`
	AreaCode string `db:"area_code" table:"parking_areas" column:"code"`
}

func (SpotDetail) GetJoinQuery() string {
	return "JOIN parking_areas ON parking_areas.id = parking_spots.area_id"
}

// Label builds the human readable identifier of the n-th spot of an area.
func Label(areaCode string, sequence int) string {
	return fmt.Sprintf("%s-%d", areaCode, sequence)
}

// ParseLabel splits a label such as "ABC-12" into its area code and sequence.
func ParseLabel(label string) (code string, sequence int, ok bool) {
	match := labelPattern.FindStringSubmatch(label)
	if match == nil {
		return "", 0, false
	}

	sequence, err := strconv.Atoi(match[2])
	if err != nil {
		return "", 0, false
	}

	return match[1], sequence, true
}

// AllAvailable reports whether no spot is reserved or occupied.
func AllAvailable(spots []Spot) bool {
	return !slices.ContainsFunc(spots, func(s Spot) bool {
		return !s.IsAvailable()
	})
}

// FirstAvailable returns the available spot with the lowest sequence.
func FirstAvailable(spots []Spot) (Spot, bool) {
	var (
		best  Spot
		found bool
	)

	for _, spot := range spots {
		if !spot.IsAvailable() {
			continue
		}

		if !found || spot.Sequence < best.Sequence {
			best = spot
			found = true
		}
	}

	return best, found
}

// SortBySequence orders spots naturally (ABC-2 before ABC-10).
func SortBySequence(spots []Spot) {
	slices.SortStableFunc(spots, func(a, b Spot) int {
		return a.Sequence - b.Sequence
	})
}
