package submissions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"dienstplan/internal/domain/audit"
	"dienstplan/internal/domain/auth"
	"dienstplan/internal/domain/workers"
)

type sigKey struct {
	submissionID string
	workerID     string
}

type fakeState struct {
	subs        map[string]*Submission
	signatures  map[sigKey]time.Time
	shiftStatus map[string]map[string]string // workerID -> shiftID -> status
	auditCount  int
}

func (st *fakeState) clone() *fakeState {
	copied := &fakeState{
		subs:        map[string]*Submission{},
		signatures:  map[sigKey]time.Time{},
		shiftStatus: map[string]map[string]string{},
		auditCount:  st.auditCount,
	}
	for id, sub := range st.subs {
		dup := *sub
		copied.subs[id] = &dup
	}
	for k, v := range st.signatures {
		copied.signatures[k] = v
	}
	for worker, m := range st.shiftStatus {
		copied.shiftStatus[worker] = map[string]string{}
		for id, status := range m {
			copied.shiftStatus[worker][id] = status
		}
	}
	return copied
}

type fakeTx struct {
	store    *fakeStore
	saved    *fakeState
	finished bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.finished = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.finished {
		t.store.state = t.saved
		t.finished = true
	}
	return nil
}

type fakeStore struct {
	state       *fakeState
	required    map[string][]string // sheetKey -> required worker ids
	unsubmitted map[string]int      // workerID -> count
	failRevert  bool
	onSerialTx  func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		state: &fakeState{
			subs:        map[string]*Submission{},
			signatures:  map[sigKey]time.Time{},
			shiftStatus: map[string]map[string]string{},
		},
		required:    map[string][]string{},
		unsubmitted: map[string]int{},
	}
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*Submission, error) {
	sub, ok := f.state.subs[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	dup := *sub
	return &dup, nil
}

func (f *fakeStore) GetBySheet(ctx context.Context, sheetKey string, month, year int) (*Submission, error) {
	for _, sub := range f.state.subs {
		if sub.SheetKey == sheetKey && sub.Month == month && sub.Year == year {
			dup := *sub
			return &dup, nil
		}
	}
	return nil, ErrSubmissionNotFound
}

func (f *fakeStore) CreateIfAbsent(ctx context.Context, sheetKey string, month, year int) (*Submission, error) {
	if sub, err := f.GetBySheet(ctx, sheetKey, month, year); err == nil {
		return sub, nil
	}
	id := fmt.Sprintf("sub-%s-%d-%d", sheetKey, month, year)
	f.state.subs[id] = &Submission{
		ID: id, SheetKey: sheetKey, Month: month, Year: year,
		Status: StatusPendingEmployees, CreatedAt: time.Now(),
	}
	return f.GetByID(ctx, id)
}

func (f *fakeStore) HasSignature(ctx context.Context, submissionID, workerID string) (bool, error) {
	_, ok := f.state.signatures[sigKey{submissionID, workerID}]
	return ok, nil
}

func (f *fakeStore) ListSignatures(ctx context.Context, submissionID string) ([]Signature, error) {
	var out []Signature
	for k, at := range f.state.signatures {
		if k.submissionID == submissionID {
			out = append(out, Signature{SubmissionID: k.submissionID, WorkerID: k.workerID, SignedAt: at})
		}
	}
	return out, nil
}

func (f *fakeStore) RequiredSigners(ctx context.Context, sheetKey string) ([]string, error) {
	return f.required[sheetKey], nil
}

func (f *fakeStore) UnsubmittedCount(ctx context.Context, workerID string, month, year int) (int, error) {
	return f.unsubmitted[workerID], nil
}

func (f *fakeStore) BeginSerializable(ctx context.Context) (Tx, error) {
	if f.onSerialTx != nil {
		f.onSerialTx()
	}
	return &fakeTx{store: f, saved: f.state.clone()}, nil
}

func (f *fakeStore) InsertSignatureTx(ctx context.Context, tx Tx, submissionID, workerID string) (bool, error) {
	key := sigKey{submissionID, workerID}
	if _, ok := f.state.signatures[key]; ok {
		return false, nil
	}
	f.state.signatures[key] = time.Now()
	return true, nil
}

func (f *fakeStore) DeleteSignatureTx(ctx context.Context, tx Tx, submissionID, workerID string) (bool, error) {
	key := sigKey{submissionID, workerID}
	if _, ok := f.state.signatures[key]; !ok {
		return false, nil
	}
	delete(f.state.signatures, key)
	return true, nil
}

func (f *fakeStore) SnapshotTx(ctx context.Context, tx Tx, submissionID string) (*Submission, error) {
	return f.GetByID(ctx, submissionID)
}

func (f *fakeStore) SignerIDsTx(ctx context.Context, tx Tx, submissionID string) ([]string, error) {
	var out []string
	for k := range f.state.signatures {
		if k.submissionID == submissionID {
			out = append(out, k.workerID)
		}
	}
	return out, nil
}

func (f *fakeStore) AdvanceToRecipientTx(ctx context.Context, tx Tx, submissionID, token string, expiresAt time.Time) (bool, error) {
	sub, ok := f.state.subs[submissionID]
	if !ok || sub.Status != StatusPendingEmployees {
		return false, nil
	}
	sub.Status = StatusPendingRecipient
	sub.SignToken = token
	sub.TokenExpiresAt = &expiresAt
	return true, nil
}

func (f *fakeStore) CompleteTx(ctx context.Context, tx Tx, submissionID string, signature []byte, ip string) (bool, error) {
	sub, ok := f.state.subs[submissionID]
	if !ok || sub.Status != StatusPendingRecipient {
		return false, nil
	}
	now := time.Now()
	sub.Status = StatusCompleted
	sub.RecipientSignedAt = &now
	sub.RecipientIP = ip
	sub.SignToken = ""
	sub.TokenExpiresAt = nil
	return true, nil
}

func (f *fakeStore) RevertWorkerShiftsTx(ctx context.Context, tx Tx, workerID string, month, year int) (int, error) {
	count := 0
	for id, status := range f.state.shiftStatus[workerID] {
		if status == "SUBMITTED" {
			f.state.shiftStatus[workerID][id] = "CONFIRMED"
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CompleteSheetShiftsTx(ctx context.Context, tx Tx, sheetKey string, month, year int) (int, error) {
	count := 0
	for _, m := range f.state.shiftStatus {
		for id, status := range m {
			if status == "SUBMITTED" {
				m[id] = "COMPLETED"
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeStore) RevertStatusTx(ctx context.Context, tx Tx, submissionID string) (bool, error) {
	if f.failRevert {
		return false, nil
	}
	sub, ok := f.state.subs[submissionID]
	if !ok || (sub.Status != StatusPendingEmployees && sub.Status != StatusPendingRecipient) {
		return false, nil
	}
	sub.Status = StatusPendingEmployees
	return true, nil
}

func (f *fakeStore) AuditTx(ctx context.Context, tx Tx, e audit.Entry) error {
	f.state.auditCount++
	return nil
}

func (f *fakeStore) ListPendingRecipient(ctx context.Context) ([]Submission, error) {
	var out []Submission
	for _, sub := range f.state.subs {
		if sub.Status == StatusPendingRecipient {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeStore) SetLastReminder(ctx context.Context, submissionID string, at time.Time) error {
	if sub, ok := f.state.subs[submissionID]; ok {
		sub.LastReminderAt = &at
	}
	return nil
}

func (f *fakeStore) SetDocumentRef(ctx context.Context, submissionID, ref string) error {
	if sub, ok := f.state.subs[submissionID]; ok {
		sub.DocumentRef = ref
	}
	return nil
}

type fakeTeams struct {
	teamByWorker map[string]string
}

func (f *fakeTeams) TeamIDForWorker(ctx context.Context, workerID string) (string, error) {
	return f.teamByWorker[workerID], nil
}

func (f *fakeTeams) GetTeam(ctx context.Context, teamID string) (*workers.Team, error) {
	return &workers.Team{ID: teamID, Name: "Team " + teamID, RecipientName: "Care Recipient", RecipientEmail: "recipient@example.com"}, nil
}

type fakeNotifier struct {
	invitations int
	reminders   int
	failFor     map[string]bool // recipientEmail -> fail
}

func (f *fakeNotifier) SendInvitation(ctx context.Context, name, email, url, period string) error {
	f.invitations++
	return nil
}

func (f *fakeNotifier) SendReminder(ctx context.Context, name, email, url, period string) error {
	if f.failFor[email] {
		return errors.New("smtp unavailable")
	}
	f.reminders++
	return nil
}

const testSigningSecret = "unit-signing-secret"

func newTestService(store *fakeStore, teams *fakeTeams, notifier *fakeNotifier) *Service {
	return NewService(store, teams, notifier, nil, testSigningSecret, "https://dienstplan.test", DefaultTokenTTL, DefaultReminderCooldown)
}

func setupSignedSubmission(t *testing.T, store *fakeStore, teams *fakeTeams) *Submission {
	t.Helper()
	teams.teamByWorker["w1"] = "team1"
	teams.teamByWorker["w2"] = "team1"
	store.required["team1"] = []string{"w1", "w2"}
	store.state.shiftStatus["w1"] = map[string]string{"s1": "SUBMITTED", "s2": "SUBMITTED"}
	store.state.shiftStatus["w2"] = map[string]string{"s3": "SUBMITTED"}

	svc := newTestService(store, teams, &fakeNotifier{})
	if _, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025); err != nil {
		t.Fatalf("sign w1 failed: %v", err)
	}
	sub, err := svc.SignAsEmployee(context.Background(), "w2", 3, 2025)
	if err != nil {
		t.Fatalf("sign w2 failed: %v", err)
	}
	return sub
}

func TestSignAsEmployeeIdempotent(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{"w1": "team1"}}
	store.required["team1"] = []string{"w1", "w2"}
	svc := newTestService(store, teams, &fakeNotifier{})

	if _, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.state.signatures) != 1 {
		t.Fatalf("expected exactly one signature, got %d", len(store.state.signatures))
	}
}

func TestSignAsEmployeeAdvancesWhenCovered(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	notifier := &fakeNotifier{}
	teams.teamByWorker["w1"] = "team1"
	teams.teamByWorker["w2"] = "team1"
	store.required["team1"] = []string{"w1", "w2"}
	svc := newTestService(store, teams, notifier)

	sub, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != StatusPendingEmployees {
		t.Fatalf("expected PENDING_EMPLOYEES after one of two signers, got %s", sub.Status)
	}

	sub, err = svc.SignAsEmployee(context.Background(), "w2", 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != StatusPendingRecipient {
		t.Fatalf("expected PENDING_RECIPIENT after full coverage, got %s", sub.Status)
	}
	if sub.SignToken == "" || sub.TokenExpiresAt == nil {
		t.Fatal("expected signing token to be issued on phase advance")
	}
	if notifier.invitations != 1 {
		t.Fatalf("expected one recipient invitation, got %d", notifier.invitations)
	}
}

func TestSignAsEmployeeEmptyRequiredSetAdvances(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{"w1": "team1"}}
	svc := newTestService(store, teams, &fakeNotifier{})

	sub, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != StatusPendingRecipient {
		t.Fatalf("expected first signature to advance with empty required set, got %s", sub.Status)
	}
}

func TestSignAsEmployeeSeesConcurrentFinalSigner(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{"w1": "team1", "w2": "team1"}}
	store.required["team1"] = []string{"w1", "w2"}
	notifier := &fakeNotifier{}
	svc := newTestService(store, teams, notifier)

	// w2's signature lands between w1's pre-checks and w1's signing
	// transaction. The coverage read runs inside the serialized
	// transaction and must see it, otherwise a fully signed submission
	// would sit in PENDING_EMPLOYEES with no token and no invitation.
	store.onSerialTx = func() {
		for id := range store.state.subs {
			store.state.signatures[sigKey{id, "w2"}] = time.Now()
		}
	}

	sub, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025)
	if err != nil {
		t.Fatalf("sign w1 failed: %v", err)
	}
	if sub.Status != StatusPendingRecipient {
		t.Fatalf("expected advance to %s, got %s", StatusPendingRecipient, sub.Status)
	}
	if sub.SignToken == "" {
		t.Fatal("expected a signing token to be issued")
	}
	if notifier.invitations != 1 {
		t.Fatalf("expected one invitation, got %d", notifier.invitations)
	}
}

func TestSignAsEmployeeRequiresSubmittedMonth(t *testing.T) {
	store := newFakeStore()
	store.unsubmitted["w1"] = 2
	teams := &fakeTeams{teamByWorker: map[string]string{"w1": "team1"}}
	svc := newTestService(store, teams, &fakeNotifier{})

	if _, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025); !errors.Is(err, ErrMonthNotSubmitted) {
		t.Fatalf("expected ErrMonthNotSubmitted, got %v", err)
	}
}

func TestSignAsEmployeeRejectedWhenCompleted(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{"w1": "team1"}}
	now := time.Now()
	store.state.subs["sub1"] = &Submission{
		ID: "sub1", SheetKey: "team1", Month: 3, Year: 2025,
		Status: StatusCompleted, RecipientSignedAt: &now, CreatedAt: now,
	}
	svc := newTestService(store, teams, &fakeNotifier{})

	if _, err := svc.SignAsEmployee(context.Background(), "w1", 3, 2025); !errors.Is(err, ErrSubmissionCompleted) {
		t.Fatalf("expected ErrSubmissionCompleted, got %v", err)
	}
}

func TestRecipientSignCompletesAndCascades(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	sub := setupSignedSubmission(t, store, teams)
	svc := newTestService(store, teams, &fakeNotifier{})

	completed, err := svc.SignAsRecipient(context.Background(), sub.SignToken, []byte("sig"), "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}
	if completed.RecipientSignedAt == nil {
		t.Fatal("expected recipient timestamp")
	}
	for worker, m := range store.state.shiftStatus {
		for id, status := range m {
			if status != "COMPLETED" {
				t.Fatalf("expected shift %s/%s completed, got %s", worker, id, status)
			}
		}
	}
}

func TestRecipientSignIdempotentRejection(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	sub := setupSignedSubmission(t, store, teams)
	svc := newTestService(store, teams, &fakeNotifier{})

	token := sub.SignToken
	if _, err := svc.SignAsRecipient(context.Background(), token, []byte("sig"), "203.0.113.9"); err != nil {
		t.Fatalf("first sign failed: %v", err)
	}
	if _, err := svc.SignAsRecipient(context.Background(), token, []byte("sig"), "203.0.113.9"); !errors.Is(err, ErrSubmissionCompleted) {
		t.Fatalf("expected ErrSubmissionCompleted on repeat, got %v", err)
	}
}

func TestRecipientSignExpiredToken(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	svc := newTestService(store, teams, &fakeNotifier{})

	token, err := auth.GenerateSigningToken(testSigningSecret, "sub1", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SignAsRecipient(context.Background(), token, []byte("sig"), "203.0.113.9"); !errors.Is(err, auth.ErrSigningTokenExpired) {
		t.Fatalf("expected ErrSigningTokenExpired, got %v", err)
	}
}

func TestRecipientSignStaleTokenAfterReissue(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	sub := setupSignedSubmission(t, store, teams)
	svc := newTestService(store, teams, &fakeNotifier{})

	stale, err := auth.GenerateSigningToken(testSigningSecret, sub.ID, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The stored token is the one issued on phase advance; this one is not it.
	if _, err := svc.SignAsRecipient(context.Background(), stale, []byte("sig"), "203.0.113.9"); !errors.Is(err, auth.ErrSigningTokenInvalid) {
		t.Fatalf("expected ErrSigningTokenInvalid, got %v", err)
	}
}

func TestWithdrawHappyPath(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	sub := setupSignedSubmission(t, store, teams)
	svc := newTestService(store, teams, &fakeNotifier{})

	auditBefore := store.state.auditCount
	if err := svc.Withdraw(context.Background(), "w1", 3, 2025); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := store.state.signatures[sigKey{sub.ID, "w1"}]; ok {
		t.Fatal("expected w1 signature deleted")
	}
	if store.state.subs[sub.ID].Status != StatusPendingEmployees {
		t.Fatalf("expected PENDING_EMPLOYEES, got %s", store.state.subs[sub.ID].Status)
	}
	for id, status := range store.state.shiftStatus["w1"] {
		if status != "CONFIRMED" {
			t.Fatalf("expected shift %s reverted to CONFIRMED, got %s", id, status)
		}
	}
	if store.state.auditCount != auditBefore+1 {
		t.Fatalf("expected exactly one audit entry, got %d", store.state.auditCount-auditBefore)
	}
}

func TestWithdrawRejectedAfterRecipientSigned(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	sub := setupSignedSubmission(t, store, teams)
	svc := newTestService(store, teams, &fakeNotifier{})

	if _, err := svc.SignAsRecipient(context.Background(), sub.SignToken, []byte("sig"), "203.0.113.9"); err != nil {
		t.Fatalf("recipient sign failed: %v", err)
	}

	err := svc.Withdraw(context.Background(), "w1", 3, 2025)
	if !errors.Is(err, ErrRecipientAlreadySigned) {
		t.Fatalf("expected ErrRecipientAlreadySigned, got %v", err)
	}
	if store.state.subs[sub.ID].Status != StatusCompleted {
		t.Fatal("completed submission must stay untouched")
	}
	if _, ok := store.state.signatures[sigKey{sub.ID, "w1"}]; !ok {
		t.Fatal("signature must survive a rejected withdrawal")
	}
}

func TestWithdrawRecheckCatchesRecipientRace(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	sub := setupSignedSubmission(t, store, teams)
	svc := newTestService(store, teams, &fakeNotifier{})

	// Recipient signs after the pre-check passed but before the
	// withdrawal transaction begins.
	store.onSerialTx = func() {
		now := time.Now()
		stored := store.state.subs[sub.ID]
		stored.Status = StatusCompleted
		stored.RecipientSignedAt = &now
	}

	err := svc.Withdraw(context.Background(), "w1", 3, 2025)
	if !errors.Is(err, ErrRecipientAlreadySigned) {
		t.Fatalf("expected ErrRecipientAlreadySigned from in-tx recheck, got %v", err)
	}

	// Full rollback: the deleted signature must be restored.
	if _, ok := store.state.signatures[sigKey{sub.ID, "w1"}]; !ok {
		t.Fatal("expected rollback to restore the signature")
	}
	for id, status := range store.state.shiftStatus["w1"] {
		if status != "COMPLETED" && status != "SUBMITTED" {
			t.Fatalf("expected no shift reversion, got %s for %s", status, id)
		}
	}
}

func TestWithdrawStatusChangedOnLostUpdate(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	sub := setupSignedSubmission(t, store, teams)
	store.failRevert = true
	svc := newTestService(store, teams, &fakeNotifier{})

	err := svc.Withdraw(context.Background(), "w1", 3, 2025)
	if !errors.Is(err, ErrStatusChanged) {
		t.Fatalf("expected ErrStatusChanged, got %v", err)
	}
	if _, ok := store.state.signatures[sigKey{sub.ID, "w1"}]; !ok {
		t.Fatal("expected rollback to restore the signature")
	}
}

func TestWithdrawWithoutOwnSignature(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	setupSignedSubmission(t, store, teams)
	teams.teamByWorker["w3"] = "team1"
	svc := newTestService(store, teams, &fakeNotifier{})

	if err := svc.Withdraw(context.Background(), "w3", 3, 2025); !errors.Is(err, ErrSignatureNotFound) {
		t.Fatalf("expected ErrSignatureNotFound, got %v", err)
	}
}

func TestSendRemindersRespectsCooldown(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	notifier := &fakeNotifier{failFor: map[string]bool{}}

	created := time.Now().Add(-72 * time.Hour)
	expires := time.Now().Add(time.Hour)
	store.state.subs["due1"] = &Submission{
		ID: "due1", SheetKey: "team1", Month: 3, Year: 2025,
		Status: StatusPendingRecipient, SignToken: "t1", TokenExpiresAt: &expires, CreatedAt: created,
	}
	store.state.subs["due2"] = &Submission{
		ID: "due2", SheetKey: "team2", Month: 3, Year: 2025,
		Status: StatusPendingRecipient, SignToken: "t2", TokenExpiresAt: &expires, CreatedAt: created,
	}

	svc := newTestService(store, teams, notifier)
	result, err := svc.SendReminders(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 2 || len(result.Failures) != 0 {
		t.Fatalf("expected 2 sent, got %+v", result)
	}

	// A later sweep inside the cool-down sends nothing.
	result, err = svc.SendReminders(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 0 {
		t.Fatalf("expected no reminders inside cool-down, got %+v", result)
	}
}

func TestSendRemindersCollectsFailures(t *testing.T) {
	store := newFakeStore()
	teams := &fakeTeams{teamByWorker: map[string]string{}}
	notifier := &fakeNotifier{failFor: map[string]bool{"recipient@example.com": true}}

	created := time.Now().Add(-72 * time.Hour)
	expires := time.Now().Add(time.Hour)
	store.state.subs["due1"] = &Submission{
		ID: "due1", SheetKey: "team1", Month: 3, Year: 2025,
		Status: StatusPendingRecipient, SignToken: "t1", TokenExpiresAt: &expires, CreatedAt: created,
	}

	svc := newTestService(store, teams, notifier)
	result, err := svc.SendReminders(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 0 || len(result.Failures) != 1 {
		t.Fatalf("expected one failure, got %+v", result)
	}
	if store.state.subs["due1"].LastReminderAt != nil {
		t.Fatal("failed reminder must not record a send timestamp")
	}
}
