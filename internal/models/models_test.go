// ABOUTME: Tests for API models
// ABOUTME: Validates repository refs and derived fields

package models

import "testing"

func TestParseRepositoryRef(t *testing.T) {
	tests := []struct {
		in      string
		want    RepositoryRef
		wantErr bool
	}{
		{"octo/app", RepositoryRef{Owner: "octo", Name: "app"}, false},
		{" octo/app ", RepositoryRef{Owner: "octo", Name: "app"}, false},
		{"octo", RepositoryRef{}, true},
		{"/app", RepositoryRef{}, true},
		{"octo/", RepositoryRef{}, true},
		{"octo/app/extra", RepositoryRef{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRepositoryRef(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
			if got.String() != "octo/app" {
				t.Errorf("expected octo/app, got %s", got.String())
			}
		})
	}
}

func TestAWSIntegrationConnected(t *testing.T) {
	empty := ""
	arn := "arn:aws:iam::123456789012:role/Optifuse-User-Access-Role"

	if (AWSIntegration{ExternalID: "x"}).Connected() {
		t.Error("expected nil role ARN to be disconnected")
	}
	if (AWSIntegration{ExternalID: "x", RoleARN: &empty}).Connected() {
		t.Error("expected empty role ARN to be disconnected")
	}
	if !(AWSIntegration{ExternalID: "x", RoleARN: &arn}).Connected() {
		t.Error("expected role ARN to be connected")
	}
}

func TestCandidateGroupCount(t *testing.T) {
	c := CandidateResult{Groups: [][]string{{"a", "b"}, {"c"}}}
	if c.GroupCount() != 2 {
		t.Errorf("expected 2 groups, got %d", c.GroupCount())
	}
	if c.ErrorText() != "" {
		t.Errorf("expected empty error text, got %q", c.ErrorText())
	}
}

func TestRepositoryDescriptionOrDefault(t *testing.T) {
	r := Repository{Name: "app", Owner: RepositoryOwner{Login: "octo"}}
	if r.DescriptionOrDefault() != "No description provided." {
		t.Errorf("unexpected default description %q", r.DescriptionOrDefault())
	}
	if r.Ref().String() != "octo/app" {
		t.Errorf("expected octo/app, got %s", r.Ref().String())
	}
}
