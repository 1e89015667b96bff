// Package schema holds the declarative form schemas for every business
// section: the per-site cards, the device general-info card, and the
// category-shaped technical-details cards. One generic engine renders them
// all; nothing here contains behavior.
package schema

import "griddesk/internal/form"

// SiteSections returns the schemas for every site-scoped card, in the order
// the site page renders them.
func SiteSections() []form.Schema {
	return []form.Schema{
		Compliance(),
		InsuranceProvider(),
		OAndM(),
		Offtaker(),
		SiteLease(),
		SiteLevelDetails(),
		TaxEquity(),
		VegetationVendor(),
	}
}

// Compliance covers permits and interconnection paperwork.
func Compliance() form.Schema {
	return form.Schema{
		Section: "compliance",
		Title:   "Compliance",
		Fields: []form.Field{
			{Key: "permit_number", Label: "Permit Number", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "permit_expiration", Label: "Permit Expiration", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
			{Key: "interconnection_agreement_url", Label: "Interconnection Agreement", Control: form.ControlURL,
				Rules: []form.Rule{form.URL()}},
			{Key: "compliance_contact_email", Label: "Compliance Contact Email", Control: form.ControlEmail,
				Rules: []form.Rule{form.Email()}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Compliance details saved",
			SaveError:   "Failed to update compliance details",
		},
	}
}

// InsuranceProvider is deliberately small: provider and policy only.
func InsuranceProvider() form.Schema {
	return form.Schema{
		Section: "insurance_provider",
		Title:   "Insurance Provider",
		Fields: []form.Field{
			{Key: "provider_name", Label: "Provider Name", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "policy_number", Label: "Policy Number", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Insurance provider saved",
			SaveError:   "Failed to update insurance provider",
		},
	}
}

// OAndM covers the operations and maintenance contract.
func OAndM() form.Schema {
	return form.Schema{
		Section: "o_and_m",
		Title:   "O And M",
		Fields: []form.Field{
			{Key: "vendor_name", Label: "Vendor Name", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "noc_phone", Label: "NOC Phone", Control: form.ControlPhone,
				Rules: []form.Rule{form.Phone()}},
			{Key: "annual_cost", Label: "Annual Cost", Control: form.ControlNumber, Decimals: 2,
				Rules: []form.Rule{form.Amount()}},
			{Key: "contract_end_date", Label: "Contract End Date", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "O&M contract saved",
			SaveError:   "Failed to update O&M contract",
		},
	}
}

// Offtaker covers the power purchase agreement counterparty.
func Offtaker() form.Schema {
	return form.Schema{
		Section: "offtaker",
		Title:   "Offtaker",
		Fields: []form.Field{
			{Key: "offtaker_name", Label: "Offtaker Name", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "ppa_rate", Label: "PPA Rate ($/kWh)", Control: form.ControlNumber, Decimals: 4,
				Rules: []form.Rule{form.Amount()}},
			{Key: "ppa_expiration", Label: "PPA Expiration", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
			{Key: "billing_contact_email", Label: "Billing Contact Email", Control: form.ControlEmail,
				Rules: []form.Rule{form.Email()}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Offtaker saved",
			SaveError:   "Failed to update offtaker",
		},
	}
}

// SiteLease covers the land lease.
func SiteLease() form.Schema {
	return form.Schema{
		Section: "site_lease",
		Title:   "Site Lease",
		Fields: []form.Field{
			{Key: "lessor_name", Label: "Lessor Name", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "annual_rent", Label: "Annual Rent", Control: form.ControlNumber,
				Rules: []form.Rule{form.Amount()}},
			{Key: "lease_expiration", Label: "Lease Expiration", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
			{Key: "contact_phone", Label: "Contact Phone", Control: form.ControlPhone,
				Rules: []form.Rule{form.Phone()}},
			{Key: "contact_email", Label: "Contact Email", Control: form.ControlEmail,
				Rules: []form.Rule{form.Email()}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Site lease saved",
			SaveError:   "Failed to update site lease",
		},
	}
}

// SiteLevelDetails covers physical and commercial site facts.
func SiteLevelDetails() form.Schema {
	return form.Schema{
		Section: "site_level_details",
		Title:   "Site Level Details",
		Fields: []form.Field{
			{Key: "nominal_power_kw", Label: "Nominal Power (kW)", Control: form.ControlNumber, Decimals: 2,
				Rules: []form.Rule{form.Amount()}},
			{Key: "panel_count", Label: "Panel Count", Control: form.ControlNumber,
				Rules: []form.Rule{form.Amount()}},
			{Key: "inverter_count", Label: "Inverter Count", Control: form.ControlNumber,
				Rules: []form.Rule{form.Amount()}},
			{Key: "acreage", Label: "Acreage", Control: form.ControlNumber, Decimals: 2,
				Rules: []form.Rule{form.Amount()}},
			{Key: "commercial_operation_date", Label: "Commercial Operation Date", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
			{Key: "utility_name", Label: "Utility Name", Control: form.ControlText,
				Rules: []form.Rule{form.MaxLen(100)}},
			{Key: "monitoring_portal_url", Label: "Monitoring Portal", Control: form.ControlURL,
				Rules: []form.Rule{form.URL()}},
			{Key: "gate_code", Label: "Gate Code", Control: form.ControlText,
				Rules: []form.Rule{form.MaxLen(100)}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Site level details saved",
			SaveError:   "Failed to update site level details",
		},
	}
}

// TaxEquity covers the tax equity partnership.
func TaxEquity() form.Schema {
	return form.Schema{
		Section: "tax_equity",
		Title:   "Tax Equity",
		Fields: []form.Field{
			{Key: "investor_name", Label: "Investor Name", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "fund_name", Label: "Fund Name", Control: form.ControlText,
				Rules: []form.Rule{form.MaxLen(100)}},
			{Key: "investment_amount", Label: "Investment Amount", Control: form.ControlNumber,
				Rules: []form.Rule{form.Amount()}},
			{Key: "target_return_pct", Label: "Target Return (%)", Control: form.ControlNumber, Decimals: 2,
				Rules: []form.Rule{form.Amount()}},
			{Key: "flip_date", Label: "Flip Date", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
			{Key: "investor_contact_email", Label: "Investor Contact Email", Control: form.ControlEmail,
				Rules: []form.Rule{form.Email()}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Tax equity saved",
			SaveError:   "Failed to update tax equity",
		},
	}
}

// VegetationVendor covers the groundskeeping contract.
func VegetationVendor() form.Schema {
	return form.Schema{
		Section: "vegetation_vendor",
		Title:   "Vegetation Vendor",
		Fields: []form.Field{
			{Key: "vendor_name", Label: "Vendor Name", Control: form.ControlText,
				Rules: []form.Rule{form.Required(), form.MaxLen(100)}},
			{Key: "service_phone", Label: "Service Phone", Control: form.ControlPhone,
				Rules: []form.Rule{form.Phone()}},
			{Key: "service_email", Label: "Service Email", Control: form.ControlEmail,
				Rules: []form.Rule{form.Email()}},
			{Key: "contract_amount", Label: "Contract Amount", Control: form.ControlNumber,
				Rules: []form.Rule{form.Amount()}},
			{Key: "last_service_date", Label: "Last Service Date", Control: form.ControlDate,
				Rules: []form.Rule{form.Date()}},
		},
		Fallbacks: form.Fallbacks{
			SaveSuccess: "Vegetation vendor saved",
			SaveError:   "Failed to update vegetation vendor",
		},
	}
}
