package template

// Built-in fallbacks mirroring the shipped template files. One entry per
// supplier; ForLocality substitutes the code when a locality has no entry.

func defaultSales() *Template {
	entries := []struct{ supplier, nc string }{
		{"CHAINTAR", "4001"},
		{"CHAINFGU", "4002"},
		{"CHAINZAB", "4003"},
	}
	t := &Template{}
	for _, e := range entries {
		t.Entries = append(t.Entries, Entry{Fields: []Field{
			{Key: "Document Type", Value: ""},
			{Key: "Document Date", Value: "extract_date"},
			{Key: "Supplier Code", Value: e.supplier},
			{Key: "Empty_Column", Value: ""},
			{Key: "Document Number", Value: "extract_reference"},
			{Key: "Description", Value: "extract_description"},
			{Key: "NC", Value: e.nc},
			{Key: "VC", Value: "T0"},
			{Key: "Locality", Value: "extract_locality"},
			{Key: "Total", Value: "extract_total"},
		}})
	}
	return t
}

func defaultPurchases() *Template {
	entries := []struct{ supplier, nc string }{
		{"CHAINTAR", "4001"},
		{"CHAINFGU", "4002"},
		{"CHAINZAB", "4003"},
	}
	t := &Template{}
	for _, e := range entries {
		t.Entries = append(t.Entries, Entry{Fields: []Field{
			{Key: "Document Type", Value: "SI"},
			{Key: "Document Date", Value: "extract_date"},
			{Key: "Supplier Code", Value: e.supplier},
			{Key: "Document Number", Value: "extract_reference"},
			{Key: "Description", Value: "extract_description"},
			{Key: "NC", Value: e.nc},
			{Key: "VC", Value: "T0"},
			{Key: "Net", Value: "extract_net"},
			{Key: "VAT", Value: "extract_vat"},
		}})
	}
	return t
}

func defaultUpload() *Template {
	return &Template{Entries: []Entry{{Fields: []Field{
		{Key: "Type", Value: ""},
		{Key: "Account Reference", Value: "supplier_code"},
		{Key: "Nominal A/C Ref", Value: "NC_extract"},
		{Key: "Department Code", Value: ""},
		{Key: "Date", Value: "extract_date"},
		// key spelling matches the upstream accounting import sheet
		{Key: "Refernce", Value: "extract_reference"},
		{Key: "Details", Value: "extract_description"},
		{Key: "Net Amount", Value: "extract_net"},
		{Key: "Tax Code", Value: "T0"},
		{Key: "Tax Amount", Value: "extract_vat"},
	}}}}
}
