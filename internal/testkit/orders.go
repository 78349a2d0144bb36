// Package testkit generates deterministic retail-order fixtures. Tests use
// them as known-shape inputs; the CLI writes them out as demo datasets.
package testkit

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"gosift/adapters/delimited"
	"gosift/domain/table"
)

// OrdersConfig configures the retail orders generator
type OrdersConfig struct {
	Rows        int       `json:"rows"`
	Seed        int64     `json:"seed"`
	MissingRate float64   `json:"missing_rate"`
	StartDate   time.Time `json:"start_date"`
	Days        int       `json:"days"`
}

// DefaultOrdersConfig returns the fixture defaults: one quarter of orders,
// a fixed seed, and a light sprinkling of missing cells.
func DefaultOrdersConfig() OrdersConfig {
	return OrdersConfig{
		Rows:        500,
		Seed:        42,
		MissingRate: 0.06,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:        90,
	}
}

type orderRow struct {
	id       int64
	date     time.Time
	region   string
	channel  string
	product  string
	units    int64
	price    float64
	revenue  float64
	discount *float64
	rating   *float64
	taxRate  float64
}

// Orders is one generated fixture: the same rows rendered either as a typed
// table or as raw CSV text. Equal configs always generate equal rows.
type Orders struct {
	rows []orderRow
}

type productSpec struct {
	name string
	base float64
}

var products = []productSpec{
	{"Standing Desk", 389.00},
	{"Task Chair", 249.50},
	{"Monitor Arm", 89.99},
	{"Laptop Stand", 54.25},
	{"Desk Lamp", 42.75},
	{"Cable Tray", 19.99},
	{"Footrest", 34.50},
	{"Whiteboard", 129.00},
}

// GenerateOrders builds the fixture for a config. Generation is driven by a
// single seeded source, so every field of every row is reproducible.
func GenerateOrders(cfg OrdersConfig) *Orders {
	rng := rand.New(rand.NewSource(cfg.Seed))
	rows := make([]orderRow, cfg.Rows)
	for i := range rows {
		rows[i] = generateRow(rng, cfg, i)
	}
	return &Orders{rows: rows}
}

func generateRow(rng *rand.Rand, cfg OrdersConfig, i int) orderRow {
	product := products[rng.Intn(len(products))]
	units := int64(1 + rng.Intn(12))
	price := round2(product.base * (0.9 + rng.Float64()*0.2))

	row := orderRow{
		id:      int64(10001 + i),
		date:    randomDay(rng, cfg.StartDate, cfg.Days),
		region:  weighted(rng, []string{"North", "South", "East", "West"}, []float64{0.35, 0.25, 0.25, 0.15}),
		channel: weighted(rng, []string{"online", "store", "partner"}, []float64{0.55, 0.35, 0.1}),
		product: product.name,
		units:   units,
		price:   price,
		revenue: round2(float64(units) * price),
		taxRate: 8.25,
	}

	// Discounts skew toward online orders and go missing most often, the
	// shape a real order feed tends to have.
	discountMissing := cfg.MissingRate * 2
	if row.channel == "online" {
		discountMissing = cfg.MissingRate
	}
	if rng.Float64() >= discountMissing {
		d := round2(rng.Float64() * 25)
		row.discount = &d
	}
	if rng.Float64() >= cfg.MissingRate {
		r := math.Round((1+rng.Float64()*4)*10) / 10
		row.rating = &r
	}
	return row
}

// Table renders the fixture as an already-typed table, the shape the
// pipeline produces after inference.
func (o *Orders) Table() *table.Table {
	n := len(o.rows)
	ids := make([]table.Value, n)
	dates := make([]table.Value, n)
	regions := make([]table.Value, n)
	channels := make([]table.Value, n)
	prods := make([]table.Value, n)
	units := make([]table.Value, n)
	prices := make([]table.Value, n)
	revenues := make([]table.Value, n)
	discounts := make([]table.Value, n)
	ratings := make([]table.Value, n)
	taxes := make([]table.Value, n)
	for i, r := range o.rows {
		ids[i] = table.Int(r.id)
		dates[i] = table.Time(r.date)
		regions[i] = table.Text(r.region)
		channels[i] = table.Text(r.channel)
		prods[i] = table.Text(r.product)
		units[i] = table.Int(r.units)
		prices[i] = table.Float(r.price)
		revenues[i] = table.Float(r.revenue)
		discounts[i] = optFloat(r.discount)
		ratings[i] = optFloat(r.rating)
		taxes[i] = table.Float(r.taxRate)
	}
	return table.MustNew([]table.Column{
		{Name: "order_id", Type: table.TypeInteger, Values: ids},
		{Name: "order_date", Type: table.TypeDateTime, Values: dates},
		{Name: "region", Type: table.TypeText, Values: regions},
		{Name: "channel", Type: table.TypeText, Values: channels},
		{Name: "product", Type: table.TypeText, Values: prods},
		{Name: "units", Type: table.TypeInteger, Values: units},
		{Name: "unit_price", Type: table.TypeFloat, Values: prices},
		{Name: "revenue", Type: table.TypeFloat, Values: revenues},
		{Name: "discount_pct", Type: table.TypeFloat, Values: discounts},
		{Name: "rating", Type: table.TypeFloat, Values: ratings},
		{Name: "tax_rate", Type: table.TypeFloat, Values: taxes},
	})
}

// CSV renders the fixture as raw delimited text, every cell a literal and
// dates in date-only form, so loading it exercises inference end to end.
func (o *Orders) CSV() ([]byte, error) {
	n := len(o.rows)
	cols := make([][]table.Value, 11)
	for c := range cols {
		cols[c] = make([]table.Value, n)
	}
	for i, r := range o.rows {
		cols[0][i] = table.Text(strconv.FormatInt(r.id, 10))
		cols[1][i] = table.Text(r.date.Format("2006-01-02"))
		cols[2][i] = table.Text(r.region)
		cols[3][i] = table.Text(r.channel)
		cols[4][i] = table.Text(r.product)
		cols[5][i] = table.Text(strconv.FormatInt(r.units, 10))
		cols[6][i] = table.Text(formatAmount(r.price))
		cols[7][i] = table.Text(formatAmount(r.revenue))
		cols[8][i] = textOrNull(r.discount)
		cols[9][i] = textOrNull(r.rating)
		cols[10][i] = table.Text(formatAmount(r.taxRate))
	}
	names := []string{
		"order_id", "order_date", "region", "channel", "product",
		"units", "unit_price", "revenue", "discount_pct", "rating", "tax_rate",
	}
	columns := make([]table.Column, len(names))
	for c, name := range names {
		columns[c] = table.Column{Name: name, Type: table.TypeText, Values: cols[c]}
	}
	return delimited.NewWriter().Bytes(table.MustNew(columns))
}

// Len reports the number of generated orders.
func (o *Orders) Len() int {
	return len(o.rows)
}

func optFloat(v *float64) table.Value {
	if v == nil {
		return table.Null()
	}
	return table.Float(*v)
}

func textOrNull(v *float64) table.Value {
	if v == nil {
		return table.Null()
	}
	return table.Text(formatAmount(*v))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func randomDay(rng *rand.Rand, start time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return start.AddDate(0, 0, rng.Intn(days))
}

func weighted(rng *rand.Rand, choices []string, weights []float64) string {
	r := rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[0]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SmallCSV is a hand-sized messy dataset for parser and pipeline tests:
// a numeric column with one bad literal, a date column, and missing cells.
func SmallCSV() []byte {
	return []byte("region,amount,when,code\n" +
		"North,10.5,2024-01-01,A1\n" +
		"South,20,2024-01-02,B2\n" +
		"East,oops,2024-01-03,C3\n" +
		",40,,D4\n" +
		"North,50.25,2024-01-05,E5\n")
}
