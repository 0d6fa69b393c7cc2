package parcel

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/parcelworks/feasibility-cli/internal/db"
)

// loaderColumns is the expected header order of a lot-attribute spreadsheet
// export. Header names are matched case-insensitively.
var loaderColumns = []string{
	"parcel_id", "lot_area_sqft", "building_area_sqft",
	"zoning_district_1", "zoning_district_2", "zoning_district_3", "zoning_district_4",
	"overlay_1", "overlay_2",
	"special_district_1", "special_district_2", "special_district_3",
	"land_use", "building_class", "units_res", "num_floors",
	"landmark", "historic_district", "block_id", "lot_type_code",
}

const upsertLot = `
	INSERT INTO parcel_lots (
		parcel_id, lot_area_sqft, building_area_sqft,
		zoning_district_1, zoning_district_2, zoning_district_3, zoning_district_4,
		overlay_1, overlay_2,
		special_district_1, special_district_2, special_district_3,
		land_use, building_class, units_res, num_floors,
		landmark, historic_district, block_id, lot_type_code
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	ON CONFLICT (parcel_id) DO UPDATE SET
		lot_area_sqft = EXCLUDED.lot_area_sqft,
		building_area_sqft = EXCLUDED.building_area_sqft,
		zoning_district_1 = EXCLUDED.zoning_district_1,
		zoning_district_2 = EXCLUDED.zoning_district_2,
		zoning_district_3 = EXCLUDED.zoning_district_3,
		zoning_district_4 = EXCLUDED.zoning_district_4,
		overlay_1 = EXCLUDED.overlay_1,
		overlay_2 = EXCLUDED.overlay_2,
		special_district_1 = EXCLUDED.special_district_1,
		special_district_2 = EXCLUDED.special_district_2,
		special_district_3 = EXCLUDED.special_district_3,
		land_use = EXCLUDED.land_use,
		building_class = EXCLUDED.building_class,
		units_res = EXCLUDED.units_res,
		num_floors = EXCLUDED.num_floors,
		landmark = EXCLUDED.landmark,
		historic_district = EXCLUDED.historic_district,
		block_id = EXCLUDED.block_id,
		lot_type_code = EXCLUDED.lot_type_code`

// LoadXLSX imports lot records from a spreadsheet export into the lot table.
// The first row must be a header naming the loaderColumns; extra columns are
// ignored. Returns the number of rows imported.
func LoadXLSX(ctx context.Context, pool db.Pool, path string) (int, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return 0, eris.Wrap(err, "parcel: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return 0, eris.New("parcel: xlsx has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return 0, eris.New("parcel: xlsx has no data rows")
	}

	colIndex, err := mapHeader(sheet.Rows[0])
	if err != nil {
		return 0, err
	}

	imported := 0
	for i, row := range sheet.Rows[1:] {
		if ctx.Err() != nil {
			return imported, eris.Wrap(ctx.Err(), "parcel: import cancelled")
		}

		args, skip := rowArgs(row, colIndex)
		if skip {
			continue
		}
		if _, err := pool.Exec(ctx, upsertLot, args...); err != nil {
			return imported, eris.Wrapf(err, "parcel: upsert row %d", i+2)
		}
		imported++
	}

	zap.L().Info("parcel: xlsx import complete",
		zap.String("path", path),
		zap.Int("rows", imported),
	)
	return imported, nil
}

func mapHeader(header *xlsx.Row) (map[string]int, error) {
	idx := make(map[string]int, len(header.Cells))
	for i, cell := range header.Cells {
		idx[strings.ToLower(strings.TrimSpace(cell.String()))] = i
	}
	if _, ok := idx["parcel_id"]; !ok {
		return nil, eris.New("parcel: xlsx header is missing parcel_id")
	}
	return idx, nil
}

// rowArgs builds the upsert arguments in loaderColumns order. Rows without a
// parcel id are skipped.
func rowArgs(row *xlsx.Row, colIndex map[string]int) ([]any, bool) {
	get := func(name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[i].String())
	}

	if get("parcel_id") == "" {
		return nil, true
	}

	args := make([]any, 0, len(loaderColumns))
	for _, col := range loaderColumns {
		raw := get(col)
		switch col {
		case "lot_area_sqft", "building_area_sqft", "num_floors":
			args = append(args, parseFloat(raw))
		case "units_res", "lot_type_code":
			args = append(args, parseInt(raw))
		default:
			args = append(args, nilIfEmpty(raw))
		}
	}
	return args, false
}

func parseFloat(s string) any {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return v
}

func parseInt(s string) any {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return v
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
