package logsheet

import (
	"time"

	"github.com/faizmokh/eldlog/internal/config"
	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/logbook"
	"github.com/faizmokh/eldlog/internal/recap"
	"github.com/faizmokh/eldlog/internal/schedule"
)

// Title is the heading block of the sheet.
type Title struct {
	Date           time.Time `json:"date"`
	DriverName     string    `json:"driver_name,omitempty"`
	DriverNumber   string    `json:"driver_number,omitempty"`
	DriverInitials string    `json:"driver_initials,omitempty"`
}

// Carrier is the block beside the grid: miles, equipment and carrier.
type Carrier struct {
	MilesDriving float64 `json:"miles_driving"`
	MilesTotal   float64 `json:"miles_total"`
	Truck        string  `json:"truck,omitempty"`
	Trailer      string  `json:"trailer,omitempty"`
	Name         string  `json:"name,omitempty"`
	MainOffice   string  `json:"main_office,omitempty"`
	HomeTerminal string  `json:"home_terminal,omitempty"`
}

// StatusTotal is one row of the totals column.
type StatusTotal struct {
	Status duty.Status `json:"status"`
	Row    int         `json:"row"`
	Hours  float64     `json:"hours"`
}

// Sheet is one filled-in Driver's Daily Log.
type Sheet struct {
	Title    Title              `json:"title"`
	Route    logbook.Route      `json:"route"`
	Carrier  Carrier            `json:"carrier"`
	Segments []schedule.Segment `json:"segments"`
	Grid     schedule.Grid      `json:"-"`
	Totals   []StatusTotal      `json:"totals"`
	Total    float64            `json:"total_hours"`
	Remarks  []Remark           `json:"remarks"`
	Recap    recap.Recap        `json:"recap"`
}

// Build fills a sheet for day. history supplies the days the recap looks
// back over and may include day itself. A nil cfg uses config.Default.
func Build(day logbook.Day, history []logbook.Day, cfg *config.Config, rows RowMap, now time.Time) Sheet {
	if cfg == nil {
		cfg = config.Default()
	}
	if rows == nil {
		rows = DefaultRows()
	}

	segments := Segments(day, rows, now)
	totals := ComputeTotals(day, now)

	sheet := Sheet{
		Title: Title{
			Date:           day.Date,
			DriverName:     cfg.Driver.Name,
			DriverNumber:   cfg.Driver.Number,
			DriverInitials: cfg.Driver.Initials,
		},
		Route: day.Route,
		Carrier: Carrier{
			MilesDriving: day.Miles.Driving,
			MilesTotal:   day.Miles.Total,
			Truck:        cfg.Vehicle.Truck,
			Trailer:      cfg.Vehicle.Trailer,
			Name:         cfg.Carrier.Name,
			MainOffice:   cfg.Carrier.MainOffice,
			HomeTerminal: cfg.Carrier.HomeTerminal,
		},
		Segments: segments,
		Grid:     schedule.Render(segments),
		Total:    totals.Sum().Hours(),
		Remarks:  Remarks(day),
		Recap:    recap.Compute(withDay(history, day), day.Date, now, cfg.Cycle),
	}
	// Totals follow the lanes top to bottom; a status with no lane has no row.
	for row := schedule.Row(1); row <= schedule.Rows; row++ {
		status, ok := rows.Status(row)
		if !ok {
			continue
		}
		sheet.Totals = append(sheet.Totals, StatusTotal{
			Status: status,
			Row:    int(row),
			Hours:  totals.Hours(status),
		})
	}
	return sheet
}

// withDay returns history with day in place of any copy of the same date.
func withDay(history []logbook.Day, day logbook.Day) []logbook.Day {
	out := make([]logbook.Day, 0, len(history)+1)
	for _, d := range history {
		if !logbook.SameDay(d.Date, day.Date) {
			out = append(out, d)
		}
	}
	return append(out, day)
}
