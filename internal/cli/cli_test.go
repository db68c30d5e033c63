package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// sqliteConfig — конфиг с SQLite-файлом во временной папке
func sqliteConfig(t *testing.T) (cfgPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "traffic.db")
	cfgPath = writeFile(t, dir, "traffic.yaml", "db:\n  dialect: sqlite\n  dsn: "+dbPath+"\nlog:\n  level: error\n")
	return cfgPath, dbPath
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "traffic version "+Version+"\n", out)
}

func TestCostCmd(t *testing.T) {
	out, err := run(t, "cost", "--vehicles", "1000", "--delay", "15", "--level", "medium")
	require.NoError(t, err)

	assert.Contains(t, out, "₹83.50 K")
	assert.Contains(t, out, "₹25.05 L")
	assert.Contains(t, out, "₹3.05 Cr")
	assert.Contains(t, out, "22 per day, 8030 per year")

	_, err = run(t, "cost", "--level", "gridlock")
	assert.Error(t, err)
}

func TestMigrateCmd(t *testing.T) {
	cfgPath, dbPath := sqliteConfig(t)

	out, err := run(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema ready (sqlite)")
	assert.FileExists(t, dbPath)

	// повторный запуск ничего не ломает
	_, err = run(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
}

func TestMigrateCmd_MissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "migrate")
	assert.Error(t, err)
}

const seedYAML = `
areas:
  - {id: "13", name: Velachery West, zone: South, latitude: 12.98, longitude: 80.21}
readings:
  - area_id: "13"
    congestion_level: medium
    prediction_10min: high
    current_speed: 24
    vehicle_density: 58
    stability_index: 47
    reason: Flyover works
  - area_id: "7"
    congestion_level: low
    current_speed: 46
    stability_index: 90
`

func TestSeedCmd(t *testing.T) {
	cfgPath, dbPath := sqliteConfig(t)
	seedPath := writeFile(t, t.TempDir(), "fixtures.yaml", seedYAML)

	out, err := run(t, "--config", cfgPath, "seed", "--file", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 areas, 2 readings")

	st, err := store.New(context.Background(), "sqlite", dbPath)
	require.NoError(t, err)
	defer st.Close()

	areas, err := st.ListAreas(context.Background())
	require.NoError(t, err)
	assert.Len(t, areas, 13)

	latest, err := st.LatestCongestion(context.Background())
	require.NoError(t, err)
	var got *domain.CongestionReading
	for i := range latest {
		if latest[i].AreaID == "13" {
			got = &latest[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "Velachery West", got.AreaName)
	assert.True(t, got.IsHotspot())
}

func TestSeedCmd_RequiresFile(t *testing.T) {
	_, err := run(t, "seed")
	assert.Error(t, err)
}

func TestParseSeed(t *testing.T) {
	f, err := ParseSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, f.Areas, 1)
	require.Len(t, f.Readings, 2)
	assert.Equal(t, domain.LevelHigh, f.Readings[0].Prediction10Min)

	_, err = ParseSeed(strings.NewReader("areas:\n  - {name: Nowhere}\n"))
	assert.Error(t, err)

	_, err = ParseSeed(strings.NewReader("towns: []\n"))
	assert.Error(t, err)

	f, err = ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Areas)
}

func TestImportSeed_RejectsBadReading(t *testing.T) {
	st := store.NewMemoryStore()
	f := SeedFile{Readings: []domain.CongestionReading{{AreaID: "1", Level: "jammed"}}}

	_, n, err := importSeed(context.Background(), st, f, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}
