package policy

import "testing"

func testInstitution() Institution {
	return Institution{
		Name:        "rajalakshmi institute of technology",
		Aliases:     []string{"rit", "rit chennai"},
		Substrings:  []string{"rajalakshmi", "technology"},
		Domain:      "ritchennai.edu.in",
		Departments: []string{"csbs", "cse", "aiml", "aids", "bio", "cce", "mech", "vlsi"},
	}
}

func TestMatchesCollege(t *testing.T) {
	inst := testInstitution()

	tests := []struct {
		name    string
		college string
		want    bool
	}{
		{"official name", "Rajalakshmi Institute of Technology", true},
		{"official name with whitespace", "  rajalakshmi institute of technology  ", true},
		{"short alias", "RIT", true},
		{"city alias", "rit chennai", true},
		{"both identifying substrings", "Rajalakshmi College of Technology", true},
		{"one substring only", "Rajalakshmi Engineering College", false},
		{"unrelated college", "Anna University", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inst.MatchesCollege(tt.college)
			if got != tt.want {
				t.Fatalf("MatchesCollege(%q) = %v, want %v", tt.college, got, tt.want)
			}
		})
	}
}

func TestMatchesEmail(t *testing.T) {
	inst := testInstitution()

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"primary domain", "asha@ritchennai.edu.in", true},
		{"uppercase input", "ASHA@RITCHENNAI.EDU.IN", true},
		{"department subdomain", "asha@cse.ritchennai.edu.in", true},
		{"another department", "kiran@aiml.ritchennai.edu.in", true},
		{"unknown subdomain", "asha@ece.ritchennai.edu.in", false},
		{"lookalike domain", "asha@notritchennai.edu.in", false},
		{"public provider", "asha@gmail.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inst.MatchesEmail(tt.email)
			if got != tt.want {
				t.Fatalf("MatchesEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
