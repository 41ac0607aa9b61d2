package mockapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casebridge/casebridge/internal/api"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/session"
	"github.com/casebridge/casebridge/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fixture struct {
	server  *Server
	client  api.Client
	lawyer  string
	client1 string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testutil.FixedNow })}, opts...)
	srv := New(testSecret, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	lawyer, err := srv.Token("lawyer-1", domain.RoleLawyer)
	require.NoError(t, err)
	client, err := srv.Token("client-1", domain.RoleClient)
	require.NoError(t, err)

	return &fixture{
		server:  srv,
		client:  api.NewClient(api.Options{BaseURL: ts.URL + BasePath}),
		lawyer:  lawyer,
		client1: client,
	}
}

func TestServer_RejectsMissingAndForgedTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	forged, err := IssueToken([]byte("other-secret"), "lawyer-1", domain.RoleLawyer, "", time.Hour)
	require.NoError(t, err)
	_, err = f.client.List(ctx, forged, domain.AllScope)
	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, "invalid token", authErr.Message)

	claims := session.Claims{Role: "lawyer", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "lawyer-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = f.client.List(ctx, expired, domain.AllScope)
	assert.True(t, domain.IsAuthentication(err))

	_, err = f.client.List(ctx, "", domain.AllScope)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestServer_RoleMustBeKnown(t *testing.T) {
	f := newFixture(t)
	token, err := IssueToken(testSecret, "admin-1", domain.Role("admin"), "", time.Hour)
	require.NoError(t, err)

	_, err = f.client.List(context.Background(), token, domain.AllScope)
	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
}

func TestServer_ListFiltersByParticipant(t *testing.T) {
	f := newFixture(t)
	mine := testutil.NewTestAppointment()
	other := testutil.NewTestAppointment(testutil.WithCase("case-1"))
	other.LawyerID = "lawyer-2"
	other.ClientID = "client-2"
	f.server.Seed(mine, other)

	list, err := f.client.List(context.Background(), f.lawyer, domain.AllScope)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	byCase, err := f.client.List(context.Background(), f.lawyer, domain.CaseScope("case-1"))
	require.NoError(t, err)
	require.Len(t, byCase, 1, "other participants' records in the same case stay hidden")
	assert.Equal(t, mine.ID, byCase[0].ID)
}

func TestServer_ListSortedByDate(t *testing.T) {
	f := newFixture(t)
	late := testutil.NewTestAppointment(testutil.WithDate(testutil.FixedNow.Add(96 * time.Hour)))
	early := testutil.NewTestAppointment(testutil.WithDate(testutil.FixedNow.Add(2 * time.Hour)))
	f.server.Seed(late, early)

	list, err := f.client.List(context.Background(), f.client1, domain.AllScope)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
}

func TestServer_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := testutil.NewTestAppointment()
	f.server.Seed(appt)

	got, err := f.client.Transition(ctx, f.lawyer, appt.ID, domain.ActionConfirm)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	_, err = f.client.Transition(ctx, f.lawyer, appt.ID, domain.ActionConfirm)
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusConflict, srvErr.StatusCode)
	assert.Equal(t, "Cannot confirm an appointment that is confirmed", srvErr.Message)

	got, err = f.client.Transition(ctx, f.lawyer, appt.ID, domain.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	_, err = f.client.Transition(ctx, f.lawyer, appt.ID, domain.ActionCancel)
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "Cannot cancel an appointment that is completed", srvErr.Message)
}

func TestServer_ExpiredPendingCannotBeConfirmed(t *testing.T) {
	f := newFixture(t)
	past := testutil.NewTestAppointment(testutil.WithDate(testutil.FixedNow.Add(-time.Hour)))
	f.server.Seed(past)

	_, err := f.client.Transition(context.Background(), f.lawyer, past.ID, domain.ActionConfirm)
	require.Error(t, err)
	assert.Equal(t, "Cannot confirm an appointment whose date has passed", err.Error())
}

func TestServer_StatusInvariantCheckedBeforeDate(t *testing.T) {
	f := newFixture(t)
	past := testutil.NewTestAppointment(testutil.WithDate(testutil.FixedNow.Add(-time.Hour)))
	f.server.Seed(past)

	_, err := f.client.Transition(context.Background(), f.lawyer, past.ID, domain.ActionComplete)
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusConflict, srvErr.StatusCode)
	assert.Equal(t, "Cannot complete an appointment that is pending", srvErr.Message)
}

func TestServer_LateCompletion(t *testing.T) {
	f := newFixture(t)
	past := testutil.NewTestAppointment(
		testutil.WithStatus(domain.StatusConfirmed),
		testutil.WithDate(testutil.FixedNow.Add(-time.Hour)),
	)
	f.server.Seed(past)

	got, err := f.client.Transition(context.Background(), f.lawyer, past.ID, domain.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestServer_Reschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := testutil.NewTestAppointment()
	f.server.Seed(appt)

	newDate := testutil.FixedNow.Add(7 * 24 * time.Hour)
	got, err := f.client.Reschedule(ctx, f.client1, appt.ID, newDate)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(newDate))
	assert.Equal(t, domain.StatusPending, got.Status)

	_, err = f.client.Reschedule(ctx, f.client1, appt.ID, testutil.FixedNow.Add(-time.Hour))
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusBadRequest, srvErr.StatusCode)
}

func TestServer_NonParticipantSeesNotFound(t *testing.T) {
	f := newFixture(t)
	appt := testutil.NewTestAppointment()
	f.server.Seed(appt)
	stranger, err := f.server.Token("client-9", domain.RoleClient)
	require.NoError(t, err)

	_, err = f.client.Transition(context.Background(), stranger, appt.ID, domain.ActionCancel)
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusNotFound, srvErr.StatusCode)

	stored, _ := f.server.Appointment(appt.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestServer_CreateFillsCallerAndValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := testutil.NewTestDraft(testutil.WithCreatedBy(domain.RoleLawyer))
	draft.LawyerID = ""
	got, err := f.client.Create(ctx, f.lawyer, draft)
	require.NoError(t, err)
	assert.Equal(t, "lawyer-1", got.LawyerID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.NotEmpty(t, got.ID)

	past := testutil.NewTestDraft(testutil.WithDraftDate(testutil.FixedNow.Add(-time.Hour)))
	_, err = f.client.Create(ctx, f.client1, past)
	var srvErr *domain.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusBadRequest, srvErr.StatusCode)
	assert.Equal(t, "appointment date must be in the future", srvErr.Message)

	noLawyer := testutil.NewTestDraft()
	noLawyer.LawyerID = ""
	_, err = f.client.Create(ctx, f.client1, noLawyer)
	require.ErrorAs(t, err, &srvErr)
	assert.Contains(t, srvErr.Message, "lawyer is required")
}

func TestServer_ExportICS(t *testing.T) {
	f := newFixture(t)
	appt := testutil.NewTestAppointment(testutil.WithDescription("bring documents, signed"))
	f.server.Seed(appt)

	data, err := f.client.ExportICS(context.Background(), f.lawyer, appt.ID)
	require.NoError(t, err)
	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, ics, "UID:"+appt.ID+"@casebridge")
	assert.Contains(t, ics, "DTSTART:20260317T100000Z")
	assert.Contains(t, ics, `DESCRIPTION:bring documents\, signed`)
	assert.Contains(t, ics, "STATUS:TENTATIVE")
}

func TestServer_RequestLogging(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t, WithLogger(zerolog.New(&buf)))
	appt := testutil.NewTestAppointment(testutil.WithStatus(domain.StatusCancelled))
	f.server.Seed(appt)

	_, _ = f.client.Transition(context.Background(), f.lawyer, appt.ID, domain.ActionConfirm)
	assert.Contains(t, buf.String(), `"status":409`)
	assert.Contains(t, buf.String(), `"caller":"lawyer-1"`)
}
