package user

import "testing"

func TestValidatePassword(t *testing.T) {
	valid := []string{"Passw0rd", "Tr4ding!signals", "A1bcdefg"}
	for _, p := range valid {
		if err := ValidatePassword(p); err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{
		"Sh0rt",        // too short
		"alllower1",    // no uppercase
		"ALLUPPER1",    // no lowercase
		"NoDigitsHere", // no number
		"",
	}
	for _, p := range invalid {
		if err := ValidatePassword(p); err == nil {
			t.Errorf("ValidatePassword(%q) accepted a weak password", p)
		}
	}
}
