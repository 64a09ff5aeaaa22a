package resolve

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/common"
	"github.com/DanielZo0/CMS-Sales/internal/extract"
)

func testResolver() *Resolver {
	return NewResolver(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolveStructuredFieldsWin(t *testing.T) {
	fields := &extract.RawFields{
		Locality: "Tarxien",
		Week:     "14",
		BodyText: "Invoice for week 9", // disagreeing body text loses
	}
	res, err := testResolver().Resolve("Sales Report.pdf", fields)
	if err != nil {
		t.Fatal(err)
	}
	if res.Locality != constants.Tarxien {
		t.Errorf("Locality = %q", res.Locality)
	}
	if res.Week != 14 {
		t.Errorf("Week = %d, want 14", res.Week)
	}
}

func TestResolveLocalityFromFilename(t *testing.T) {
	cases := map[string]constants.Locality{
		"Fgura Sales wk3.pdf":   constants.Fgura,
		"ZABBAR invoice w5.pdf": constants.Zabbar,
		"carters week 2.pdf":    constants.Carters,
		"Carter wk9.pdf":        constants.Carters,
	}
	for name, want := range cases {
		res, err := testResolver().Resolve(name, nil)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if res.Locality != want {
			t.Errorf("%s: Locality = %q, want %q", name, res.Locality, want)
		}
	}
}

func TestResolveFilenameLocalityBeatsBodyText(t *testing.T) {
	fields := &extract.RawFields{BodyText: "Fgura, FGR 1242\nInvoice for week 3"}
	res, err := testResolver().Resolve("Tarxien wk3.pdf", fields)
	if err != nil {
		t.Fatal(err)
	}
	if res.Locality != constants.Tarxien {
		t.Errorf("Locality = %q, filename must beat body text", res.Locality)
	}
}

func TestResolveLocalityFromBodyText(t *testing.T) {
	fields := &extract.RawFields{BodyText: "Chain Supermarket\nZabbar, ZBR 1111\nInvoice for week 6"}
	res, err := testResolver().Resolve("invoice.pdf", fields)
	if err != nil {
		t.Fatal(err)
	}
	if res.Locality != constants.Zabbar {
		t.Errorf("Locality = %q", res.Locality)
	}
	if res.Week != 6 {
		t.Errorf("Week = %d", res.Week)
	}
}

func TestResolveUnknownLocalityFails(t *testing.T) {
	_, err := testResolver().Resolve("invoice wk3.pdf", &extract.RawFields{Locality: "Sliema"})
	if err == nil {
		t.Fatal("unknown locality should fail resolution")
	}
	if !errors.Is(err, common.ErrResolution) {
		t.Errorf("error %v is not a resolution error", err)
	}
}

func TestResolveWeekConflictFails(t *testing.T) {
	fields := &extract.RawFields{Locality: "Fgura", Week: "7"}
	_, err := testResolver().Resolve("Fgura wk9.pdf", fields)
	if err == nil {
		t.Fatal("conflicting weeks should fail resolution")
	}
	if !errors.Is(err, common.ErrResolution) {
		t.Errorf("error %v is not a resolution error", err)
	}
}

func TestResolveWeekAgreementPasses(t *testing.T) {
	fields := &extract.RawFields{Locality: "Fgura", Week: "9"}
	res, err := testResolver().Resolve("Fgura wk9.pdf", fields)
	if err != nil {
		t.Fatal(err)
	}
	if res.Week != 9 {
		t.Errorf("Week = %d", res.Week)
	}
}

func TestResolveWeekFromFilenameMarkers(t *testing.T) {
	cases := map[string]int{
		"Tarxien wk12.pdf":      12,
		"Tarxien Week 3.pdf":    3,
		"Tarxien w4.pdf":        4,
		"Tarxien Sales (8).pdf": 8,
	}
	for name, want := range cases {
		res, err := testResolver().Resolve(name, nil)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if res.Week != want {
			t.Errorf("%s: Week = %d, want %d", name, res.Week, want)
		}
	}
}

func TestResolveWeekFromStartDate(t *testing.T) {
	// 6 January 2025 is the Monday of ISO week 2
	fields := &extract.RawFields{StartDate: "6/1/25"}
	res, err := testResolver().Resolve("Fgura Sales.pdf", fields)
	if err != nil {
		t.Fatal(err)
	}
	if res.Week != 2 {
		t.Errorf("Week = %d, want 2", res.Week)
	}
}

func TestResolveWeekBareNumberLastResort(t *testing.T) {
	res, err := testResolver().Resolve("Tarxien 12.pdf", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Week != 12 {
		t.Errorf("Week = %d, want 12", res.Week)
	}
}

func TestResolveNoWeekFails(t *testing.T) {
	_, err := testResolver().Resolve("Tarxien Sales.pdf", nil)
	if err == nil {
		t.Fatal("missing week should fail resolution")
	}
	if !errors.Is(err, common.ErrResolution) {
		t.Errorf("error %v is not a resolution error", err)
	}
}

func TestResolveRejectsOutOfRangeWeek(t *testing.T) {
	// 60 is outside 1..53 so the marker is ignored and resolution fails
	_, err := testResolver().Resolve("Tarxien wk60.pdf", nil)
	if err == nil {
		t.Fatal("week 60 should not resolve")
	}
}
