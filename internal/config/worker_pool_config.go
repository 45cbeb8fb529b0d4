package config

// WorkerPoolConfig sizes the shared task pool.
type WorkerPoolConfig struct {
	Workers   int `json:"workers,omitempty" yaml:"workers,omitempty" validate:"omitempty,min=1"`
	QueueSize int `json:"queue_size,omitempty" yaml:"queue_size,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultWorkerPoolConfig creates default worker pool configuration
func NewDefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		Workers:   DefaultWorkerPoolWorkers,
		QueueSize: DefaultWorkerPoolQueueSize,
	}
}
