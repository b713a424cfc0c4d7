package services

import (
	"reflect"
	"testing"

	"github.com/gewnthar/sitetrack/models"
)

func TestExtractCompliance(t *testing.T) {
	cases := []struct {
		name       string
		rows       []models.Row
		wantStatus string
		wantIssues []string
	}{
		{
			name:       "no rows",
			rows:       nil,
			wantStatus: models.ComplianceUnknown,
			wantIssues: []string{"Compliance data not available"},
		},
		{
			name:       "all blank",
			rows:       []models.Row{{"Site ID": "1", "OHS": "  "}},
			wantStatus: models.ComplianceUnknown,
			wantIssues: []string{"All compliance fields are blank"},
		},
		{
			name:       "compliant with alternate spellings",
			rows:       []models.Row{{"No of Staff RFB": "yes", "CESMPS_Submitte": "YES", "OHS Measures": " Yes "}},
			wantStatus: models.ComplianceCompliant,
			wantIssues: []string{},
		},
		{
			name:       "mixed",
			rows:       []models.Row{{"No_of_Staff_RFB": "No", "CESMPS": "maybe", "OHS_Measures": "No"}},
			wantStatus: models.ComplianceNonCompliant,
			wantIssues: []string{"Staff RFB not submitted", "CESMPS submission status unknown", "OHS measures not in place"},
		},
		{
			name: "only first row counts",
			rows: []models.Row{
				{"Staff RFB": "Yes", "CEMSPS_Submitted": "Yes", "OHS": "Yes"},
				{"Staff RFB": "No", "CEMSPS_Submitted": "No", "OHS": "No"},
			},
			wantStatus: models.ComplianceCompliant,
			wantIssues: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractCompliance(tc.rows)
			if got.Status != tc.wantStatus {
				t.Errorf("Status = %s, want %s", got.Status, tc.wantStatus)
			}
			if !reflect.DeepEqual(got.Issues, tc.wantIssues) {
				t.Errorf("Issues = %#v, want %#v", got.Issues, tc.wantIssues)
			}
		})
	}
}

func TestExtractComplianceNormalizesValues(t *testing.T) {
	got := ExtractCompliance([]models.Row{{"Staff RFB": "YES", "CESMPS": "no"}})
	if got.NoOfStaffRFB == nil || *got.NoOfStaffRFB != "Yes" {
		t.Errorf("NoOfStaffRFB = %v", got.NoOfStaffRFB)
	}
	if got.CESMPSSubmitted == nil || *got.CESMPSSubmitted != "No" {
		t.Errorf("CESMPSSubmitted = %v", got.CESMPSSubmitted)
	}
	if got.OHSMeasures != nil {
		t.Errorf("OHSMeasures = %v, want nil", *got.OHSMeasures)
	}
}

func TestCountCompliance(t *testing.T) {
	m := map[string]models.PackageCompliance{
		"A": {Status: models.ComplianceCompliant},
		"B": {Status: models.ComplianceNonCompliant},
		"C": {Status: models.ComplianceNonCompliant},
		"D": {Status: models.ComplianceUnknown},
	}
	want := models.ComplianceCounts{Compliant: 1, NonCompliant: 2, Unknown: 1, Total: 4}
	if got := CountCompliance(m); got != want {
		t.Errorf("CountCompliance = %+v, want %+v", got, want)
	}
}
