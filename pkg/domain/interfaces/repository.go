package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	SeenURL() SeenURLRepository
	BatchJob() BatchJobRepository

	Close() error
}
