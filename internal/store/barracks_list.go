// ABOUTME: CRUD layer for the barracks list records.
// ABOUTME: The wide agronomy record behind the lista cuarteles page.

package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// BarracksList is the full agronomy record for a field/block: zone and
// naming, harvest windows, soil profile, plantation layout, and irrigation.
type BarracksList struct {
	ID                 string  `json:"id"`
	ClassificationZone string  `json:"classificationZone"`
	BarracksPaddockName string `json:"barracksPaddockName"`
	CodeOptional       string  `json:"codeOptional"`
	Organic            bool    `json:"organic"`
	VarietySpecies     string  `json:"varietySpecies"`
	Variety            string  `json:"variety"`
	QualityType        string  `json:"qualityType"`
	TotalHa            float64 `json:"totalHa"`
	TotalPlants        int     `json:"totalPlants"`
	PercentToRepresent float64 `json:"percentToRepresent"`
	AvailableRecord    string  `json:"availableRecord"`
	Active             bool    `json:"active"`
	UseProration       bool    `json:"useProration"`

	FirstHarvestDate  string `json:"firstHarvestDate"`
	FirstHarvestDay   int    `json:"firstHarvestDay"`
	SecondHarvestDate string `json:"secondHarvestDate"`
	SecondHarvestDay  int    `json:"secondHarvestDay"`
	ThirdHarvestDate  string `json:"thirdHarvestDate"`
	ThirdHarvestDay   int    `json:"thirdHarvestDay"`

	SoilType       string  `json:"soilType"`
	Texture        string  `json:"texture"`
	Depth          string  `json:"depth"`
	SoilPh         float64 `json:"soilPh"`
	PercentPending float64 `json:"percentPending"`

	Pattern                string  `json:"pattern"`
	PlantationYear         int     `json:"plantationYear"`
	PlantNumber            int     `json:"plantNumber"`
	RowsList               string  `json:"rowsList"`
	PlantForRow            int     `json:"plantForRow"`
	DistanceBetweenRowsMts float64 `json:"distanceBetweenRowsMts"`
	RowsTotal              int     `json:"rowsTotal"`
	Area                   float64 `json:"area"`

	IrrigationType string  `json:"irrigationType"`
	ItsByHa        float64 `json:"itsByHa"`
	IrrigationZone bool    `json:"irrigationZone"`

	BarracksLotObject string `json:"barracksLotObject"`
	InvestmentNumber  string `json:"investmentNumber"`
	Observation       string `json:"observation"`
	MapSectorColor    string `json:"mapSectorColor"`
	State             bool   `json:"state"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const barracksListSelect = `
	SELECT id, classification_zone, barracks_paddock_name, code_optional, organic,
		variety_species, variety, quality_type, total_ha, total_plants,
		percent_to_represent, available_record, active, use_proration,
		first_harvest_date, first_harvest_day, second_harvest_date, second_harvest_day,
		third_harvest_date, third_harvest_day,
		soil_type, texture, depth, soil_ph, percent_pending,
		pattern, plantation_year, plant_number, rows_list, plant_for_row,
		distance_between_rows_mts, rows_total, area,
		irrigation_type, its_by_ha, irrigation_zone,
		barracks_lot_object, investment_number, observation, map_sector_color, state,
		created_at, updated_at
	FROM barracks_list`

func (s *Store) FindAllBarracksList() ([]*BarracksList, error) {
	rows, err := s.db.Query(barracksListSelect + ` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*BarracksList
	for rows.Next() {
		b, err := scanBarracksList(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, b)
	}
	return records, rows.Err()
}

func (s *Store) FindBarracksListByID(id string) (*BarracksList, error) {
	row := s.db.QueryRow(barracksListSelect+` WHERE id = ?`, id)
	b, err := scanBarracksList(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *Store) CreateBarracksList(b *BarracksList) (*BarracksList, error) {
	b.ID = uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO barracks_list (
			id, classification_zone, barracks_paddock_name, code_optional, organic,
			variety_species, variety, quality_type, total_ha, total_plants,
			percent_to_represent, available_record, active, use_proration,
			first_harvest_date, first_harvest_day, second_harvest_date, second_harvest_day,
			third_harvest_date, third_harvest_day,
			soil_type, texture, depth, soil_ph, percent_pending,
			pattern, plantation_year, plant_number, rows_list, plant_for_row,
			distance_between_rows_mts, rows_total, area,
			irrigation_type, its_by_ha, irrigation_zone,
			barracks_lot_object, investment_number, observation, map_sector_color, state
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.ClassificationZone, b.BarracksPaddockName, b.CodeOptional, b.Organic,
		b.VarietySpecies, b.Variety, b.QualityType, b.TotalHa, b.TotalPlants,
		b.PercentToRepresent, b.AvailableRecord, b.Active, b.UseProration,
		b.FirstHarvestDate, b.FirstHarvestDay, b.SecondHarvestDate, b.SecondHarvestDay,
		b.ThirdHarvestDate, b.ThirdHarvestDay,
		b.SoilType, b.Texture, b.Depth, b.SoilPh, b.PercentPending,
		b.Pattern, b.PlantationYear, b.PlantNumber, b.RowsList, b.PlantForRow,
		b.DistanceBetweenRowsMts, b.RowsTotal, b.Area,
		b.IrrigationType, b.ItsByHa, b.IrrigationZone,
		b.BarracksLotObject, b.InvestmentNumber, b.Observation, b.MapSectorColor, b.State,
	)
	if err != nil {
		return nil, err
	}
	return s.FindBarracksListByID(b.ID)
}

var barracksListColumns = map[string]string{
	"classificationZone":     "classification_zone",
	"barracksPaddockName":    "barracks_paddock_name",
	"codeOptional":           "code_optional",
	"organic":                "organic",
	"varietySpecies":         "variety_species",
	"variety":                "variety",
	"qualityType":            "quality_type",
	"totalHa":                "total_ha",
	"totalPlants":            "total_plants",
	"percentToRepresent":     "percent_to_represent",
	"availableRecord":        "available_record",
	"active":                 "active",
	"useProration":           "use_proration",
	"firstHarvestDate":       "first_harvest_date",
	"firstHarvestDay":        "first_harvest_day",
	"secondHarvestDate":      "second_harvest_date",
	"secondHarvestDay":       "second_harvest_day",
	"thirdHarvestDate":       "third_harvest_date",
	"thirdHarvestDay":        "third_harvest_day",
	"soilType":               "soil_type",
	"texture":                "texture",
	"depth":                  "depth",
	"soilPh":                 "soil_ph",
	"percentPending":         "percent_pending",
	"pattern":                "pattern",
	"plantationYear":         "plantation_year",
	"plantNumber":            "plant_number",
	"rowsList":               "rows_list",
	"plantForRow":            "plant_for_row",
	"distanceBetweenRowsMts": "distance_between_rows_mts",
	"rowsTotal":              "rows_total",
	"area":                   "area",
	"irrigationType":         "irrigation_type",
	"itsByHa":                "its_by_ha",
	"irrigationZone":         "irrigation_zone",
	"barracksLotObject":      "barracks_lot_object",
	"investmentNumber":       "investment_number",
	"observation":            "observation",
	"mapSectorColor":         "map_sector_color",
	"state":                  "state",
}

// UpdateBarracksList applies the patch with partial-merge semantics.
func (s *Store) UpdateBarracksList(id string, patch map[string]any) (*BarracksList, error) {
	query, args := buildUpdate("barracks_list", barracksListColumns, patch, id)
	if query == "" {
		return s.FindBarracksListByID(id)
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.FindBarracksListByID(id)
}

// SoftDeleteBarracksList marks the record inactive rather than removing it.
func (s *Store) SoftDeleteBarracksList(id string) (*BarracksList, error) {
	return s.UpdateBarracksList(id, map[string]any{"state": false})
}

func scanBarracksList(r rowScanner) (*BarracksList, error) {
	var b BarracksList
	err := r.Scan(
		&b.ID, &b.ClassificationZone, &b.BarracksPaddockName, &b.CodeOptional, &b.Organic,
		&b.VarietySpecies, &b.Variety, &b.QualityType, &b.TotalHa, &b.TotalPlants,
		&b.PercentToRepresent, &b.AvailableRecord, &b.Active, &b.UseProration,
		&b.FirstHarvestDate, &b.FirstHarvestDay, &b.SecondHarvestDate, &b.SecondHarvestDay,
		&b.ThirdHarvestDate, &b.ThirdHarvestDay,
		&b.SoilType, &b.Texture, &b.Depth, &b.SoilPh, &b.PercentPending,
		&b.Pattern, &b.PlantationYear, &b.PlantNumber, &b.RowsList, &b.PlantForRow,
		&b.DistanceBetweenRowsMts, &b.RowsTotal, &b.Area,
		&b.IrrigationType, &b.ItsByHa, &b.IrrigationZone,
		&b.BarracksLotObject, &b.InvestmentNumber, &b.Observation, &b.MapSectorColor, &b.State,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
