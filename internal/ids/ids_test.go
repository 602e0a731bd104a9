package ids

import "testing"

func TestUserIDSaturates(t *testing.T) {
	if _, ok := MaxUserID.Next(); ok {
		t.Fatalf("MaxUserID.Next() should report no more room")
	}
	next, ok := UserID(0).Next()
	if !ok || next != 1 {
		t.Fatalf("UserID(0).Next() = %v, %v; want 1, true", next, ok)
	}
}

func TestMaskIDSaturates(t *testing.T) {
	if _, ok := MaxMaskID.Next(); ok {
		t.Fatalf("MaxMaskID.Next() should report no more room")
	}
}

func TestQuestionIDSaturates(t *testing.T) {
	if _, ok := MaxQuestionID.Next(); ok {
		t.Fatalf("MaxQuestionID.Next() should report no more room")
	}
}

func TestAnswerIDSaturates(t *testing.T) {
	if _, ok := MaxAnswerID.Next(); ok {
		t.Fatalf("MaxAnswerID.Next() should report no more room")
	}
}

func TestEqualityIsConstantTimeSemantics(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"equal", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !UserID(42).Equal(UserID(42)) {
				t.Fatalf("expected equal UserIDs to compare equal")
			}
			if UserID(42).Equal(UserID(43)) {
				t.Fatalf("expected distinct UserIDs to compare unequal")
			}
		})
	}
}

func TestNonceNext(t *testing.T) {
	n := Nonce(0)
	for i := 0; i < 5; i++ {
		n = n.Next()
	}
	if n != 5 {
		t.Fatalf("Nonce.Next() x5 = %v, want 5", n)
	}
}

func TestIdentityIDEqual(t *testing.T) {
	if !UserIdentity(7).Equal(UserIdentity(7)) {
		t.Fatal("expected equal user identities to compare equal")
	}
	if UserIdentity(7).Equal(UserIdentity(8)) {
		t.Fatal("expected distinct user identities to compare unequal")
	}
	if UserIdentity(7).Equal(MaskIdentity(7)) {
		t.Fatal("expected different kinds to compare unequal regardless of payload")
	}
	if !RoomIdentity().Equal(RoomIdentity()) {
		t.Fatal("expected room identity to compare equal to itself")
	}
}

func TestChainHeightsAreDistinctTypes(t *testing.T) {
	var rh RoomHeight = 3
	var sh SurveyHeight = 3
	if rh.Next() != 4 {
		t.Fatalf("RoomHeight.Next() = %v, want 4", rh.Next())
	}
	if sh.Next() != 4 {
		t.Fatalf("SurveyHeight.Next() = %v, want 4", sh.Next())
	}
}
