package models

import (
	"encoding/json"
	"testing"
)

func TestResaleListingPassthrough(t *testing.T) {
	in := `{"street_name":"BISHAN ST 12","resale_price":"455000.00","town":"BISHAN","floor_area_sqm":"92","remaining_lease":{"years":61,"months":4}}`

	var l ResaleListing
	if err := json.Unmarshal([]byte(in), &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if l.StreetName != "BISHAN ST 12" || l.ResalePrice != 455000 {
		t.Errorf("got street %q price %v", l.StreetName, l.ResalePrice)
	}
	if l.Field("town") != "BISHAN" {
		t.Errorf("town: got %q", l.Field("town"))
	}
	if l.Field("missing") != "" {
		t.Errorf("missing field: got %q", l.Field("missing"))
	}

	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(out, &fields); err != nil {
		t.Fatal(err)
	}
	if string(fields["remaining_lease"]) != `{"years":61,"months":4}` {
		t.Errorf("remaining_lease: got %s", fields["remaining_lease"])
	}
	if string(fields["resale_price"]) != "455000" {
		t.Errorf("resale_price: got %s", fields["resale_price"])
	}
}

func TestResaleListingRejectsBadPrice(t *testing.T) {
	var l ResaleListing
	if err := json.Unmarshal([]byte(`{"street_name":"X","resale_price":"cheap"}`), &l); err == nil {
		t.Fatal("expected error for non-numeric price")
	}
}

func TestResaleListingMissingFields(t *testing.T) {
	var l ResaleListing
	if err := json.Unmarshal([]byte(`{"town":"YISHUN","resale_price":null}`), &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if l.StreetName != "" || l.ResalePrice != 0 {
		t.Errorf("got street %q price %v", l.StreetName, l.ResalePrice)
	}
}
