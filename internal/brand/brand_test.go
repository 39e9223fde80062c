package brand

import "testing"

func TestBrandLoaded(t *testing.T) {
	if Name == "" {
		t.Fatal("brand name not loaded from brand.json")
	}
	if LowerName == "" {
		t.Fatal("lower name not loaded")
	}
	if ConfigEnvPrefix == "" {
		t.Fatal("config env prefix not loaded")
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent("1.2.3")
	want := Name + "/1.2.3"
	if ua != want {
		t.Errorf("UserAgent = %q, want %q", ua, want)
	}

	// Empty version falls back to dev
	if got := UserAgent(""); got != Name+"/dev" {
		t.Errorf("UserAgent(\"\") = %q, want %q", got, Name+"/dev")
	}
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(ConfigEnvPrefix+"_CONFIG_DIR", "/tmp/labgate-test")
	if got := GetConfigDir(); got != "/tmp/labgate-test" {
		t.Errorf("GetConfigDir = %q, want /tmp/labgate-test", got)
	}
}
