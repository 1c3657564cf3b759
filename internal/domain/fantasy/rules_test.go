package fantasy

import (
	"strings"
	"testing"

	"github.com/schoolleague/fantasy-engine/internal/domain/player"
)

func validMembers() []SquadMember {
	return []SquadMember{
		{PlayerID: "p-gk", Position: player.PositionGoalkeeper, Price: 4.5},
		{PlayerID: "p-def1", Position: player.PositionDefender, Price: 5.0},
		{PlayerID: "p-def2", Position: player.PositionDefender, Price: 5.0},
		{PlayerID: "p-mid1", Position: player.PositionMidfielder, Price: 6.0},
		{PlayerID: "p-mid2", Position: player.PositionMidfielder, Price: 6.0},
		{PlayerID: "p-fwd1", Position: player.PositionForward, Price: 7.0, IsCaptain: true},
		{PlayerID: "p-fwd2", Position: player.PositionForward, Price: 7.0},
	}
}

func TestValidateBudget(t *testing.T) {
	t.Parallel()

	if res := ValidateBudget(nil, InitialBudget); !res.Valid {
		t.Fatalf("empty squad should pass budget check: %v", res.Errors)
	}

	atBudget := []SquadMember{
		{PlayerID: "a", Price: 60},
		{PlayerID: "b", Price: 40},
	}
	if res := ValidateBudget(atBudget, 100); !res.Valid {
		t.Fatalf("exactly-at-budget squad should pass: %v", res.Errors)
	}

	over := []SquadMember{
		{PlayerID: "a", Price: 60},
		{PlayerID: "b", Price: 40.5},
	}
	res := ValidateBudget(over, 100)
	if res.Valid {
		t.Fatal("over-budget squad should fail")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "budget") {
		t.Fatalf("expected exactly one budget error, got %v", res.Errors)
	}

	if res := ValidateBudget([]SquadMember{{PlayerID: "a", Price: 0}}, 100); res.Valid {
		t.Fatal("zero price should fail budget validation")
	}
}

func TestValidateFormation(t *testing.T) {
	t.Parallel()

	for _, f := range []Formation{Formation222, Formation231, Formation321, Formation132, Formation123} {
		if res := ValidateFormation(f); !res.Valid {
			t.Fatalf("formation %s should be valid: %v", f, res.Errors)
		}
	}
	if res := ValidateFormation("4-4-2"); res.Valid {
		t.Fatal("formation outside the closed set should fail")
	}
}

func TestValidateSquad_IndependentViolations(t *testing.T) {
	t.Parallel()

	if res := ValidateSquad(validMembers(), Formation222); !res.Valid {
		t.Fatalf("valid squad rejected: %v", res.Errors)
	}

	short := validMembers()[:6]
	if res := ValidateSquad(short, Formation222); res.Valid {
		t.Fatal("six-member squad should fail")
	}

	noCaptain := validMembers()
	noCaptain[5].IsCaptain = false
	if res := ValidateSquad(noCaptain, Formation222); res.Valid {
		t.Fatal("captainless squad should fail")
	}

	twoCaptains := validMembers()
	twoCaptains[0].IsCaptain = true
	if res := ValidateSquad(twoCaptains, Formation222); res.Valid {
		t.Fatal("two-captain squad should fail")
	}

	dup := validMembers()
	dup[2].PlayerID = dup[1].PlayerID
	if res := ValidateSquad(dup, Formation222); res.Valid {
		t.Fatal("duplicate player squad should fail")
	}

	// Correct size but wrong shape for the declared formation.
	if res := ValidateSquad(validMembers(), Formation321); res.Valid {
		t.Fatal("2-2-2 shaped squad should fail 3-2-1 validation")
	}
}

func TestValidateSquad_UnknownFormationReported(t *testing.T) {
	t.Parallel()

	res := ValidateSquad(validMembers(), "banana")
	if res.Valid {
		t.Fatal("unknown formation must be reported as invalid")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "unknown formation") {
		t.Fatalf("expected unknown-formation error, got %v", res.Errors)
	}
}

func TestValidatePlayerAddition(t *testing.T) {
	t.Parallel()

	current := validMembers()[:5]

	ok := SquadMember{PlayerID: "p-fwd1", Position: player.PositionForward, Price: 7.0}
	if res := ValidatePlayerAddition(current, ok, Formation222, InitialBudget); !res.Valid {
		t.Fatalf("legal addition rejected: %v", res.Errors)
	}

	dup := SquadMember{PlayerID: "p-mid2", Position: player.PositionMidfielder, Price: 6.0}
	if res := ValidatePlayerAddition(current, dup, Formation222, InitialBudget); res.Valid {
		t.Fatal("duplicate addition should fail")
	}

	expensive := SquadMember{PlayerID: "p-new", Position: player.PositionForward, Price: 80}
	if res := ValidatePlayerAddition(current, expensive, Formation222, InitialBudget); res.Valid {
		t.Fatal("over-budget addition should fail")
	}

	thirdMid := SquadMember{PlayerID: "p-mid3", Position: player.PositionMidfielder, Price: 6.0}
	if res := ValidatePlayerAddition(current, thirdMid, Formation222, InitialBudget); res.Valid {
		t.Fatal("addition past the formation slot cap should fail")
	}
}

func TestValidateTransfer(t *testing.T) {
	t.Parallel()

	out := SquadMember{PlayerID: "a", Position: player.PositionForward, Price: 8.0}
	in := SquadMember{PlayerID: "b", Position: player.PositionForward, Price: 9.5}

	if res := ValidateTransfer(out, in, 2.0); !res.Valid {
		t.Fatalf("affordable transfer rejected: %v", res.Errors)
	}
	if res := ValidateTransfer(out, in, 1.0); res.Valid {
		t.Fatal("unaffordable transfer should fail")
	}

	crossPosition := SquadMember{PlayerID: "b", Position: player.PositionMidfielder, Price: 6.0}
	if res := ValidateTransfer(out, crossPosition, 50); res.Valid {
		t.Fatal("cross-position transfer should fail")
	}

	// Price decreases pass regardless of remaining budget, even negative.
	cheaper := SquadMember{PlayerID: "b", Position: player.PositionForward, Price: 5.0}
	if res := ValidateTransfer(out, cheaper, -3.0); !res.Valid {
		t.Fatalf("price-decrease transfer should always pass: %v", res.Errors)
	}

	// Even when the budget is deeper in the red than the decrease itself.
	slightlyCheaper := SquadMember{PlayerID: "b", Position: player.PositionForward, Price: 6.0}
	if res := ValidateTransfer(out, slightlyCheaper, -5.0); !res.Valid {
		t.Fatalf("price-decrease transfer with deeply negative budget should pass: %v", res.Errors)
	}

	samePrice := SquadMember{PlayerID: "b", Position: player.PositionForward, Price: 8.0}
	if res := ValidateTransfer(out, samePrice, -1.0); !res.Valid {
		t.Fatalf("same-price transfer should pass whatever the budget: %v", res.Errors)
	}
}

func TestValidateTeamName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		valid bool
	}{
		{"ab", false},
		{"abc", true},
		{strings.Repeat("x", 30), true},
		{strings.Repeat("x", 31), false},
		{"   ", false},
		{"Good <Team>", false},
		{"Bracket [XI]", false},
		{"Curly {XI}", false},
		{"Slash/Team", false},
		{"O'Neill's XI", true},
		{"Équipe número 9", true},
		// Length bounds count characters, not bytes.
		{strings.Repeat("é", 20), true},
		{strings.Repeat("é", 30), true},
		{strings.Repeat("é", 31), false},
	}
	for _, tc := range cases {
		res := ValidateTeamName(tc.name)
		if res.Valid != tc.valid {
			t.Fatalf("name %q: expected valid=%v, got %v (%v)", tc.name, tc.valid, res.Valid, res.Errors)
		}
	}
}

func TestValidateTeam_UnionsAllErrors(t *testing.T) {
	t.Parallel()

	over := validMembers()
	over[6].Price = 200

	res := ValidateTeam("x", over, "not-a-formation", InitialBudget)
	if res.Valid {
		t.Fatal("expected aggregate validation failure")
	}
	// Name, budget and formation violations must all be present in one pass.
	if len(res.Errors) < 3 {
		t.Fatalf("expected name+budget+formation errors together, got %v", res.Errors)
	}

	if res := ValidateTeam("Casa Azul", validMembers(), Formation222, InitialBudget); !res.Valid {
		t.Fatalf("fully valid team rejected: %v", res.Errors)
	}
}
