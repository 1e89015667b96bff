package schema

import (
	"griddesk/internal/catalog"
	"griddesk/internal/form"
)

// GeneralInfo is the device identity card. The telemetry_id field is the
// device-to-telemetry mapping; changing it can make the backend answer a save
// with 202 Accepted, which the console follows with a telemetry resync.
func GeneralInfo() form.Schema {
	return form.Schema{
		Section: "general_info",
		Title:   "General Info",
		Fields: []form.Field{
			{Key: "device_name", Label: "Device Name", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "serial_number", Label: "Serial Number", Control: form.ControlText,
				Rules: []form.Rule{form.MaxLen(100)}},
			{Key: "telemetry_id", Label: "Telemetry ID", Control: form.ControlText,
				Rules: []form.Rule{form.MaxLen(100)}},
			{Key: "installation_date", Label: "Installation Date", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Device info saved",
			SaveError:   "Failed to update device info",
		},
	}
}

// TechnicalDetails returns the technical-details schema for a device
// category. Unknown categories get an empty, read-only schema so the card
// still renders without an edit affordance worth using.
func TechnicalDetails(category string) form.Schema {
	fields, ok := technicalFields[category]
	if !ok {
		fields = nil
	}
	return form.Schema{
		Section: "technical_details",
		Title:   "Technical Details",
		Fields:  fields,
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Technical details saved",
			SaveError:   "Failed to update technical details",
		},
	}
}

// HasTechnicalDetails reports whether a category has an editable
// technical-details schema.
func HasTechnicalDetails(category string) bool {
	_, ok := technicalFields[category]
	return ok
}

// communicationIPFields is the sub-form shared by the two gateway
// categories. Both edit the same pair of fields.
func communicationIPFields() []form.Field {
	return []form.Field{
		{Key: "communication_ip", Label: "Communication IP", Control: form.ControlIP,
			Rules: []form.Rule{form.Required(), form.IPAddress()}},
		{Key: "communication_port", Label: "Communication Port", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
	}
}

var technicalFields = map[string][]form.Field{
	catalog.CategoryInverter: {
		{Key: "rated_power_kw", Label: "Rated Power (kW)", Control: form.ControlNumber, Decimals: 2,
			Rules: []form.Rule{form.Amount()}},
		{Key: "dc_input_voltage", Label: "DC Input Voltage", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
		{Key: "firmware_version", Label: "Firmware Version", Control: form.ControlText,
			Rules: []form.Rule{form.MaxLen(100)}},
		{Key: "ip_address", Label: "IP Address", Control: form.ControlIP,
			Rules: []form.Rule{form.IPAddress()}},
	},
	catalog.CategoryMeter: {
		{Key: "meter_multiplier", Label: "Meter Multiplier", Control: form.ControlNumber, Decimals: 2,
			Rules: []form.Rule{form.Amount()}},
		{Key: "ct_ratio", Label: "CT Ratio", Control: form.ControlText,
			Rules: []form.Rule{form.MaxLen(100)}},
		{Key: "modbus_address", Label: "Modbus Address", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
	},
	catalog.CategoryCombinerBox: {
		{Key: "string_count", Label: "String Count", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
		{Key: "fuse_rating_amps", Label: "Fuse Rating (A)", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
	},
	catalog.CategoryRackMount: {
		{Key: "rack_units", Label: "Rack Units", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
		{Key: "mounting_location", Label: "Mounting Location", Control: form.ControlText,
			Rules: []form.Rule{form.MaxLen(100)}},
	},
	catalog.CategoryTransformer: {
		{Key: "rated_kva", Label: "Rated kVA", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
		{Key: "primary_voltage", Label: "Primary Voltage", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
		{Key: "secondary_voltage", Label: "Secondary Voltage", Control: form.ControlNumber,
			Rules: []form.Rule{form.Amount()}},
	},
	catalog.CategoryModem: {
		{Key: "ip_address", Label: "IP Address", Control: form.ControlIP,
			Rules: []form.Rule{form.IPAddress()}},
		{Key: "apn", Label: "APN", Control: form.ControlText,
			Rules: []form.Rule{form.MaxLen(100)}},
		{Key: "sim_number", Label: "SIM Number", Control: form.ControlText,
			Rules: []form.Rule{form.MaxLen(100)}},
	},
	catalog.CategoryWeatherStation: {
		{Key: "sensor_suite", Label: "Sensor Suite", Control: form.ControlText,
			Rules: []form.Rule{form.MaxLen(100)}},
		{Key: "calibration_date", Label: "Calibration Date", Control: form.ControlDate,
			Rules: []form.Rule{form.Date()}},
	},
	catalog.CategoryNetworkConnection: {
		{Key: "ip_address", Label: "IP Address", Control: form.ControlIP,
			Rules: []form.Rule{form.IPAddress()}},
		{Key: "subnet_mask", Label: "Subnet Mask", Control: form.ControlIP,
			Rules: []form.Rule{form.IPAddress()}},
		{Key: "gateway_address", Label: "Gateway Address", Control: form.ControlIP,
			Rules: []form.Rule{form.IPAddress()}},
	},
	catalog.CategoryNetworkGateway: communicationIPFields(),
	catalog.CategoryMBODGateway:    communicationIPFields(),
}
