// Package mocks provides mock implementations for testing the inkwell backend.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockML := mocks.NewMockMLClient(ctrl)
//	mockML.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(result, nil)
package mocks

// Generate mock for MLClient interface from internal/ports package.
// This creates MockMLClient with methods for all MLClient interface methods:
// Analyze, Generate
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=ml_client_mock.go github.com/inkwell-ai/inkwell-api/internal/ports MLClient

// Generate mock for JobStore interface from internal/ports package.
// This creates MockJobStore with methods for all JobStore interface methods:
// Create, Update, Get, Sweep, Len
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_store_mock.go github.com/inkwell-ai/inkwell-api/internal/ports JobStore
