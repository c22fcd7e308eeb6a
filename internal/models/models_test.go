package models

import "testing"

func TestAvatar(t *testing.T) {
	want := "https://gravatar.com/avatar/4b9bb80620f03eb3719e0a061c14283d?s=128"

	if got := Avatar("bob@example.com"); got != want {
		t.Fatalf("Avatar() = %s, want %s", got, want)
	}

	// Case and surrounding whitespace must not change the derived avatar.
	if got := Avatar("  Bob@Example.COM "); got != want {
		t.Fatalf("Avatar() not normalized: %s", got)
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{"first problem.", "second problem."}
	if errs.Error() != "first problem. second problem." {
		t.Fatalf("unexpected message: %q", errs.Error())
	}
}
