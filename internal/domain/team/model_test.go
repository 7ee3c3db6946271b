package team

import "testing"

func TestTeam_Validate(t *testing.T) {
	t.Parallel()

	founded := 1878
	valid := Team{SportID: 1, ExternalID: "33", Name: "Manchester United", FoundedYear: &founded}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid team: %v", err)
	}

	zero := 0
	negative := -5
	cases := map[string]Team{
		"missing name":      {SportID: 1, ExternalID: "33"},
		"missing external":  {SportID: 1, Name: "X"},
		"zero founded year": {SportID: 1, ExternalID: "33", Name: "X", FoundedYear: &zero},
		"negative capacity": {SportID: 1, ExternalID: "33", Name: "X", VenueCapacity: &negative},
	}
	for name, item := range cases {
		if err := item.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
