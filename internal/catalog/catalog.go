// Package catalog holds the static device-category and manufacturer lookup
// tables used across the console. This is reference data, not behavior.
package catalog

// Category tags match the category field the backend attaches to devices.
const (
	CategoryInverter          = "Inverter"
	CategoryMeter             = "Meter"
	CategoryCombinerBox       = "CombinerBox"
	CategoryRackMount         = "RackMount"
	CategoryTransformer       = "Transformer"
	CategoryModem             = "Modem"
	CategoryWeatherStation    = "WeatherStation"
	CategoryNetworkConnection = "NetworkConnection"
	CategoryNetworkGateway    = "NetworkGateway"
	CategoryMBODGateway       = "MBODGateway"
)

// Categories lists every known device category in display order.
var Categories = []string{
	CategoryInverter,
	CategoryMeter,
	CategoryCombinerBox,
	CategoryRackMount,
	CategoryTransformer,
	CategoryModem,
	CategoryWeatherStation,
	CategoryNetworkConnection,
	CategoryNetworkGateway,
	CategoryMBODGateway,
}

var displayNames = map[string]string{
	CategoryInverter:          "Inverter",
	CategoryMeter:             "Meter",
	CategoryCombinerBox:       "Combiner Box",
	CategoryRackMount:         "Rack Mount",
	CategoryTransformer:       "Transformer",
	CategoryModem:             "Modem",
	CategoryWeatherStation:    "Weather Station",
	CategoryNetworkConnection: "Network Connection",
	CategoryNetworkGateway:    "Network Gateway",
	CategoryMBODGateway:       "MBOD Gateway",
}

// Manufacturers per category, as shipped by the platform team.
var manufacturers = map[string][]string{
	CategoryInverter:       {"SMA", "SolarEdge", "Fronius", "Sungrow", "Power Electronics", "Chint"},
	CategoryMeter:          {"Elkor", "Veris", "Accuenergy", "Shark", "SEL"},
	CategoryCombinerBox:    {"Bentek", "SolarBOS", "Shoals"},
	CategoryTransformer:    {"ABB", "Eaton", "Cooper", "MGM"},
	CategoryModem:          {"Sierra Wireless", "Cradlepoint", "Digi"},
	CategoryWeatherStation: {"Campbell Scientific", "Lufft", "Vaisala", "RainWise"},
	CategoryNetworkGateway: {"Obvius", "eGauge", "AlsoEnergy"},
	CategoryMBODGateway:    {"Obvius", "eGauge"},
}

// Known reports whether the category tag is one the console understands.
func Known(category string) bool {
	_, ok := displayNames[category]
	return ok
}

// DisplayName returns the human-readable name for a category tag.
// Unknown tags come back unchanged.
func DisplayName(category string) string {
	if name, ok := displayNames[category]; ok {
		return name
	}
	return category
}

// Manufacturers returns the manufacturer list for a category. Categories
// with no curated list return nil.
func Manufacturers(category string) []string {
	return manufacturers[category]
}
