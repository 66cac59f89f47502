package indexes

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestIndex_KeyDirections(t *testing.T) {
	m := index("idx_login_user_time", "user_id", "-login_time")

	want := bson.D{{Key: "user_id", Value: 1}, {Key: "login_time", Value: -1}}
	if got := keySig(m.Keys.(bson.D)); got != keySig(want) {
		t.Errorf("keys = %s, want %s", got, keySig(want))
	}
	if m.Options.Name == nil || *m.Options.Name != "idx_login_user_time" {
		t.Errorf("name = %v", m.Options.Name)
	}
	if m.Options.Unique != nil {
		t.Error("plain index should not set unique")
	}
}

func TestDesired_SessionTokenUnique(t *testing.T) {
	for _, d := range desired {
		if d.collection != Sessions {
			continue
		}
		for _, m := range d.models {
			if *m.Options.Name != "idx_session_token" {
				continue
			}
			if m.Options.Unique == nil || !*m.Options.Unique {
				t.Fatal("session_token index must be unique")
			}
			return
		}
	}
	t.Fatal("idx_session_token not declared")
}

func TestSameBoolPtr(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		a, b *bool
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and false", nil, &no, true},
		{"nil and true", nil, &yes, false},
		{"true and true", &yes, &yes, true},
		{"false and nil", &no, nil, true},
		{"true and nil", &yes, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameBoolPtr(tt.a, tt.b); got != tt.want {
				t.Errorf("sameBoolPtr() = %v, want %v", got, tt.want)
			}
		})
	}
}
