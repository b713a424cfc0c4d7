// backend/services/compliance.go
package services

import (
	"strings"

	"github.com/gewnthar/sitetrack/models"
)

// Package-level Yes/No fields sit in the first data row of each sheet,
// under any of these headers.
var (
	colStaffRFB = []string{"No_of_Staff_RFB", "No of Staff RFB", "Staff RFB"}
	colCESMPS   = []string{"CESMPS_Submitted", "CESMPS_Submitte", "CEMSPS_Submitted", "CESMPS"}
	colOHS      = []string{"OHS_Measures", "OHS Measures", "OHS"}
)

// ExtractCompliance reads the compliance block of one package's rows.
func ExtractCompliance(rows []models.Row) models.PackageCompliance {
	if len(rows) == 0 {
		return models.PackageCompliance{
			Status: models.ComplianceUnknown,
			Issues: []string{"Compliance data not available"},
		}
	}
	first := rows[0]
	return EvaluateCompliance(
		parseYesNo(first.Text(colStaffRFB...)),
		parseYesNo(first.Text(colCESMPS...)),
		parseYesNo(first.Text(colOHS...)),
	)
}

// EvaluateCompliance derives status and issues from the three normalized fields.
func EvaluateCompliance(staffRFB, cesmps, ohs *string) models.PackageCompliance {
	pc := models.PackageCompliance{
		NoOfStaffRFB:    staffRFB,
		CESMPSSubmitted: cesmps,
		OHSMeasures:     ohs,
		Issues:          []string{},
	}
	if staffRFB == nil && cesmps == nil && ohs == nil {
		pc.Status = models.ComplianceUnknown
		pc.Issues = []string{"All compliance fields are blank"}
		return pc
	}

	if issue := complianceIssue(staffRFB, "Staff RFB status unknown", "Staff RFB not submitted"); issue != "" {
		pc.Issues = append(pc.Issues, issue)
	}
	if issue := complianceIssue(cesmps, "CESMPS submission status unknown", "CESMPS not submitted"); issue != "" {
		pc.Issues = append(pc.Issues, issue)
	}
	if issue := complianceIssue(ohs, "OHS measures status unknown", "OHS measures not in place"); issue != "" {
		pc.Issues = append(pc.Issues, issue)
	}

	if len(pc.Issues) == 0 {
		pc.Status = models.ComplianceCompliant
	} else {
		pc.Status = models.ComplianceNonCompliant
	}
	return pc
}

// CountCompliance tallies packages by compliance status.
func CountCompliance(m map[string]models.PackageCompliance) models.ComplianceCounts {
	counts := models.ComplianceCounts{Total: len(m)}
	for _, pc := range m {
		switch pc.Status {
		case models.ComplianceCompliant:
			counts.Compliant++
		case models.ComplianceNonCompliant:
			counts.NonCompliant++
		default:
			counts.Unknown++
		}
	}
	return counts
}

func complianceIssue(value *string, unknownMsg, noMsg string) string {
	switch {
	case value == nil:
		return unknownMsg
	case *value != "Yes":
		return noMsg
	default:
		return ""
	}
}

func parseYesNo(raw string) *string {
	var v string
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		v = "Yes"
	case "no":
		v = "No"
	default:
		return nil
	}
	return &v
}
