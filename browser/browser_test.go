package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/use-agent/harvest/models"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"chrome", KindChrome, false},
		{"Chrome", KindChrome, false},
		{"CHROME", KindChrome, false},
		{"firefox", KindFirefox, false},
		{"FireFox", KindFirefox, false},
		{"", "", true},
		{"safari", "", true},
		{"edge", "", true},
		{"chromium ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.wantErr {
				var loadErr *models.LoadError
				if !errors.As(err, &loadErr) || loadErr.Code != models.ErrCodeInvalidBrowser {
					t.Errorf("ParseKind(%q) error = %v, want INVALID_BROWSER LoadError", tt.in, err)
				}
			}
		})
	}
}

func TestLaunch_UnknownKind(t *testing.T) {
	_, err := Launch(context.Background(), Options{Kind: "lynx"})
	if err == nil {
		t.Fatal("Launch() accepted unknown kind")
	}
	var loadErr *models.LoadError
	if !errors.As(err, &loadErr) || loadErr.Code != models.ErrCodeInvalidBrowser {
		t.Errorf("Launch() error = %v, want INVALID_BROWSER LoadError", err)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"deadline", context.DeadlineExceeded, models.ErrCodeTimeout},
		{"canceled", context.Canceled, models.ErrCodeTimeout},
		{"other", errors.New("net::ERR_CONNECTION_REFUSED"), models.ErrCodeNavigation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorize(tt.err, "msg")
			if got.Code != tt.code {
				t.Errorf("categorize() code = %q, want %q", got.Code, tt.code)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("categorize() lost the wrapped error %v", tt.err)
			}
		})
	}
}
