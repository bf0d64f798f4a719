package csvdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoadScenario(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"demand.csv":    "hour,demand\n0,100\n1,120\n",
		"wind.csv":      "hour,wind\n0,30\n1,10\n",
		"solar.csv":     "hour,solar\n0,20\n1,0\n",
		"gasplants.csv": "name,capacity,efficiency,fuel_price\nccgt,80,0.55,90\nocgt,40,0.35,90\n",
	})

	sc, err := LoadScenario(dir)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 120}, sc.Demand.Values)
	assert.Equal(t, []float64{30, 10}, sc.Wind.Values)
	require.Len(t, sc.Generators, 2)
	assert.Nil(t, sc.GasPrices)

	frame, ladder, err := sc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Horizon())
	assert.Equal(t, "ccgt", ladder.Generators[0].Name)
}

func TestLoadScenarioHourlyPrices(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"demand.csv":     "hour,demand\n0,100\n",
		"wind.csv":       "hour,wind\n0,30\n",
		"solar.csv":      "hour,solar\n0,20\n",
		"gasplants.csv":  "name,capacity,efficiency\nccgt,80,0.55\n",
		"gas_prices.csv": "hour,price\n0,90\n",
	})

	sc, err := LoadScenario(dir)
	require.NoError(t, err)
	require.NotNil(t, sc.GasPrices)
	assert.Equal(t, []float64{90}, sc.GasPrices.Values)
}

func TestLoadScenarioMissingFuelPrice(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"demand.csv":    "hour,demand\n0,100\n",
		"wind.csv":      "hour,wind\n0,30\n",
		"solar.csv":     "hour,solar\n0,20\n",
		"gasplants.csv": "name,capacity,efficiency\nccgt,80,0.55\n",
	})

	_, err := LoadScenario(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuel_price")
}

func TestLoadScenarioBadRow(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"demand.csv":    "hour,demand\nzero,100\n",
		"wind.csv":      "hour,wind\n0,30\n",
		"solar.csv":     "hour,solar\n0,20\n",
		"gasplants.csv": "name,capacity,efficiency,fuel_price\nccgt,80,0.55,90\n",
	})

	_, err := LoadScenario(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hour")
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(t.TempDir())
	require.Error(t, err)
}
