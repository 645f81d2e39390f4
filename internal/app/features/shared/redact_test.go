package shared_test

import (
	"testing"

	"github.com/webstackhq/webstack/internal/app/features/shared"
	"github.com/webstackhq/webstack/internal/domain/models"
)

const brand = "Webstack"

func TestRedactMessage_CustomerSeesBrandForStaff(t *testing.T) {
	m := models.Message{SenderName: "Alex Rivera", SenderRole: "team_member", Body: "status update"}

	got := shared.RedactMessage("customer", brand, m)
	if got.SenderName != brand {
		t.Errorf("SenderName: got %q, want %q", got.SenderName, brand)
	}
	if got.Body != m.Body {
		t.Errorf("Body should be untouched, got %q", got.Body)
	}
}

func TestRedactMessage_CustomerSeesBrandForAdmin(t *testing.T) {
	m := models.Message{SenderName: "Sam Admin", SenderRole: "admin"}

	got := shared.RedactMessage("customer", brand, m)
	if got.SenderName != brand {
		t.Errorf("SenderName: got %q, want %q", got.SenderName, brand)
	}
}

func TestRedactMessage_CustomerSenderNotRedacted(t *testing.T) {
	m := models.Message{SenderName: "Casey Customer", SenderRole: "customer"}

	got := shared.RedactMessage("customer", brand, m)
	if got.SenderName != "Casey Customer" {
		t.Errorf("customer sender should keep their name, got %q", got.SenderName)
	}
}

func TestRedactMessage_StaffViewerSeesRawNames(t *testing.T) {
	m := models.Message{SenderName: "Alex Rivera", SenderRole: "team_member"}

	for _, viewer := range []string{"team_member", "admin"} {
		got := shared.RedactMessage(viewer, brand, m)
		if got.SenderName != "Alex Rivera" {
			t.Errorf("viewer %s: got %q, want raw name", viewer, got.SenderName)
		}
	}
}

func TestRedactMessages_DoesNotMutateInput(t *testing.T) {
	msgs := []models.Message{
		{SenderName: "Alex Rivera", SenderRole: "team_member"},
		{SenderName: "Casey Customer", SenderRole: "customer"},
	}

	out := shared.RedactMessages("customer", brand, msgs)

	if out[0].SenderName != brand {
		t.Errorf("out[0].SenderName: got %q, want %q", out[0].SenderName, brand)
	}
	if out[1].SenderName != "Casey Customer" {
		t.Errorf("out[1].SenderName: got %q, want raw name", out[1].SenderName)
	}
	if msgs[0].SenderName != "Alex Rivera" {
		t.Error("stored slice should never be changed by redaction")
	}
}
