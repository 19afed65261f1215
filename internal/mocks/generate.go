// Package mocks provides gomock doubles for the portal's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockNotificationAPI(ctrl)
//	api.EXPECT().ListNotifications(gomock.Any()).Return(nil, nil)
package mocks

// Session persistence: Load, Save, Clear.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/medscan/portal/internal/ports SessionStore

// Raw durable storage behind the session repo: GetMany, Commit.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=key_value_store_mock.go github.com/medscan/portal/internal/ports KeyValueStore

// Remote MedScan API collaborators.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=medscan_api_mock.go github.com/medscan/portal/internal/ports AuthAPI,NotificationAPI,AppointmentAPI,DoctorAPI,ProfileAPI,ClinicAPI,ScanAPI
