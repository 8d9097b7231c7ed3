package domain

import "testing"

func TestMaskPII(t *testing.T) {
	c := Candidate{
		FirstName:   "jane",
		LastName:    "Doe",
		Email:       "jane.doe@example.com",
		Phone:       "+1 555 0100",
		LinkedinURL: "https://linkedin.com/in/janedoe",
		ResumeURL:   "https://cdn.example.com/resume.pdf",
		Location:    "Lisbon",
	}

	masked := MaskPII(c, false)
	if masked.FirstName != "J." || masked.LastName != "D." {
		t.Errorf("masked name = %q %q", masked.FirstName, masked.LastName)
	}
	if masked.Email != MaskedEmailPlaceholder {
		t.Errorf("masked email = %q", masked.Email)
	}
	if masked.Phone != "" || masked.LinkedinURL != "" || masked.ResumeURL != "" {
		t.Error("contact fields should be cleared")
	}
	if masked.Location != "Lisbon" {
		t.Error("non-PII fields should survive masking")
	}

	unmasked := MaskPII(c, true)
	if unmasked != c {
		t.Error("accepted application should unmask the full record")
	}
}

func TestMaskPIIEmptyNames(t *testing.T) {
	masked := MaskPII(Candidate{Email: "x@example.com"}, false)
	if masked.FirstName != "" || masked.LastName != "" {
		t.Errorf("empty names should stay empty, got %q %q", masked.FirstName, masked.LastName)
	}
}
