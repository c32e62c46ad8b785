package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Mario Kart Wii", "mario-kart-wii"},
		{"punctuation", "Ratchet & Clank: Up Your Arsenal", "ratchet-clank-up-your-arsenal"},
		{"accents", "Pokémon Café", "pokemon-cafe"},
		{"leading and trailing junk", "  ...Doom!  ", "doom"},
		{"digits kept", "Final Fantasy VII (PS1)", "final-fantasy-vii-ps1"},
		{"collapsed separators", "a -- b", "a-b"},
		{"empty", "", ""},
		{"only punctuation", "!?!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.title); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestLoose(t *testing.T) {
	if got := Loose("mario-kart-wii"); got != "mariokartwii" {
		t.Errorf("Loose() = %q, want %q", got, "mariokartwii")
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"mario-kart-wii", "Mario Kart Wii"},
		{"gta-v-ps4", "Gta V PS4"},
		{"mega-man-x", "Mega Man X"},
		{"zelda-n64", "Zelda N64"},
		{"boulder-dash-c64", "Boulder Dash C64"},
		{"metroid-gba", "Metroid GBA"},
		{"tetris-gb", "Tetris GB"},
		{"crash-psx", "Crash PSX"},
		{"plain", "Plain"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Humanize(tt.id); got != tt.want {
				t.Errorf("Humanize(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
