package password

import (
	"strings"
	"testing"
)

func TestValidateReportsAllViolations(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		want int
	}{
		{"all rules broken", "", 5},
		{"short lowercase only", "abc", 4},
		{"missing special", "Password123", 1},
		{"missing digit and special", "Password", 2},
		{"valid", "Str0ng!Pass", 0},
		{"valid with unicode special", "Passw0rdé", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(tc.pw)
			if len(got) != tc.want {
				t.Fatalf("Validate(%q) = %v, want %d violations", tc.pw, got, tc.want)
			}
		})
	}
}

func TestValidateViolationMessages(t *testing.T) {
	got := Validate("short")

	wantFragments := []string{
		"at least 8 characters",
		"uppercase",
		"number",
		"special",
	}
	for _, frag := range wantFragments {
		found := false
		for _, v := range got {
			if strings.Contains(v, frag) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a violation mentioning %q, got %v", frag, got)
		}
	}

	for _, v := range got {
		if strings.Contains(v, "lowercase") {
			t.Errorf("lowercase rule should pass for %q, got %v", "short", got)
		}
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	const pw = "Str0ng!Pass"

	hash, err := Hash(pw)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash not in PHC format: %s", hash)
	}

	ok, err := Verify(pw, hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password did not verify")
	}

	ok, err = Verify("Wr0ng!Pass", hash)
	if err != nil {
		t.Fatalf("Verify wrong: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashUniqueSalt(t *testing.T) {
	h1, err := Hash("Str0ng!Pass")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := Hash("Str0ng!Pass")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical; salt is not unique")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	for _, bad := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$%%%$aGFzaA",
	} {
		if ok, err := Verify("whatever", bad); err == nil || ok {
			t.Errorf("Verify(%q) = (%v, %v), want error", bad, ok, err)
		}
	}
}
