package notifysvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	saved   []notification.Notification
	saveErr error
}

func (f *fakeRepo) Save(_ context.Context, n notification.Notification) (notification.Notification, error) {
	if f.saveErr != nil {
		return notification.Notification{}, f.saveErr
	}
	if n.ExternalID != "" {
		for _, s := range f.saved {
			if s.ExternalID == n.ExternalID {
				return s, nil
			}
		}
	}
	n.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, n)

	return n, nil
}

func (f *fakeRepo) ListRecent(_ context.Context, limit int) ([]notification.Notification, error) {
	if limit > len(f.saved) {
		limit = len(f.saved)
	}

	return f.saved[:limit], nil
}

type fakeNotifier struct {
	got  []notification.Notification
	err  error
	errs []error
}

func (f *fakeNotifier) Notify(_ context.Context, n notification.Notification) error {
	f.got = append(f.got, n)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]

		return err
	}

	return f.err
}

func TestNotifyService_ProcessPush(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		raw         string
		repoErr     error
		notifyErr   error
		invalid     bool
		expectedErr bool
	}{
		{
			name: "valid payload",
			raw:  `{"notification":{"title":"Order shipped","body":"#1042"},"data":{"notificationId":"n-1"}}`,
		},
		{
			name:        "malformed json",
			raw:         `{"notification":`,
			invalid:     true,
			expectedErr: true,
		},
		{
			name:        "missing title and subject",
			raw:         `{"notification":{"body":"x"}}`,
			invalid:     true,
			expectedErr: true,
		},
		{
			name:        "bad action url",
			raw:         `{"notification":{"title":"t"},"data":{"actionUrl":"not a url"}}`,
			invalid:     true,
			expectedErr: true,
		},
		{
			name:        "repository failure",
			raw:         `{"notification":{"title":"t"}}`,
			repoErr:     errors.New("connection refused"),
			expectedErr: true,
		},
		{
			name:        "notifier failure",
			raw:         `{"notification":{"title":"t"}}`,
			notifyErr:   errors.New("socket closed"),
			expectedErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{saveErr: tc.repoErr}
			notifier := &fakeNotifier{err: tc.notifyErr}
			svc := MustNewNotifyService(
				WithNotificationRepository(repo),
				WithNotifier(notifier),
				WithClock(func() time.Time { return now }),
			)

			err := svc.ProcessPush(context.Background(), []byte(tc.raw))
			if !tc.expectedErr {
				require.NoError(t, err)
				require.Len(t, notifier.got, 1)
				assert.Equal(t, int64(1), notifier.got[0].ID)
				assert.Equal(t, "Order shipped", notifier.got[0].Title)
				assert.Equal(t, now, notifier.got[0].DeliveredAt)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tc.invalid, errors.Is(err, notification.ErrInvalidPayload))
			if tc.invalid {
				assert.Empty(t, repo.saved)
			}
		})
	}
}

func TestNotifyService_RedeliveryAfterNotifyFailure(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{errs: []error{errors.New("socket closed")}}
	svc := MustNewNotifyService(WithNotificationRepository(repo), WithNotifier(notifier))
	raw := []byte(`{"notification":{"title":"Order shipped"},"data":{"notificationId":"n-7"}}`)

	require.Error(t, svc.ProcessPush(context.Background(), raw))
	require.NoError(t, svc.ProcessPush(context.Background(), raw))

	require.Len(t, repo.saved, 1, "a retried push is stored once")
	require.Len(t, notifier.got, 2)
	assert.Equal(t, notifier.got[0].ID, notifier.got[1].ID)
	assert.Equal(t, "n-7", notifier.got[1].ExternalID)
}

func TestNotifyService_ListRecent(t *testing.T) {
	repo := &fakeRepo{}
	svc := MustNewNotifyService(WithNotificationRepository(repo), WithNotifier(&fakeNotifier{}))

	require.NoError(t, svc.ProcessPush(context.Background(), []byte(`{"notification":{"title":"a"}}`)))
	require.NoError(t, svc.ProcessPush(context.Background(), []byte(`{"notification":{"title":"b"}}`)))

	got, err := svc.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMustNewNotifyService_PanicsWithoutRepository(t *testing.T) {
	assert.Panics(t, func() { MustNewNotifyService() })
}
