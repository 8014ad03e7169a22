package pipeline

import "testing"

func TestScanMetadata(t *testing.T) {
	text := `ACME SHIPYARDS PTE LTD
Client: Acme Shipyards
RFQ No: RFQ-2024-117
Date: 15/03/2024
MATERIAL REQUISITION FOR PIPING`

	md := ScanMetadata(text)
	if md.ClientName != "Acme Shipyards" {
		t.Errorf("client = %q", md.ClientName)
	}
	if md.RFQReference == "" {
		t.Error("expected RFQ reference")
	}
	if md.Date != "15/03/2024" {
		t.Errorf("date = %q", md.Date)
	}
}

func TestScanMetadataISODate(t *testing.T) {
	md := ScanMetadata("Issued 2024-03-15 for inquiry")
	if md.Date != "2024-03-15" {
		t.Errorf("date = %q", md.Date)
	}
}

func TestScanMetadataTextualDate(t *testing.T) {
	md := ScanMetadata("Quotation required by 15 March 2024")
	if md.Date != "15 March 2024" {
		t.Errorf("date = %q", md.Date)
	}
}

func TestScanMetadataEmpty(t *testing.T) {
	md := ScanMetadata("   ")
	if md.ClientName != "" || md.RFQReference != "" || md.Date != "" {
		t.Errorf("expected empty metadata, got %+v", md)
	}
}
