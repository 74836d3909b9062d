package service

// Service defines the lifecycle of a long-lived collaborator
// Services own external resources: the terminal, the audio device, the score database
//
// Lifecycle:
//  1. Construction with its configuration
//  2. Init() - acquire the resource
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	// Init acquires the service's resource
	Init() error

	// Start begins service operation, called after every service initialized
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent
	Stop() error
}
