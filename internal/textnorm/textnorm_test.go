package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Activités", "activites"},
		{"ÉQUIPE", "equipe"},
		{"Soirée Club Med", "soiree club med"},
		{"après-midi", "apres-midi"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Link_Label ", "link label"},
		{"Libellé-lien", "libelle lien"},
		{"Dress   Code", "dress code"},
		{"Line-up", "line up"},
	}
	for _, tt := range tests {
		if got := Key(tt.input); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
