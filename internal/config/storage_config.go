package config

// StorageConfig defines where findings are kept and exported
type StorageConfig struct {
	SQLitePath        string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	ParquetExportPath string `json:"parquet_export_path,omitempty" yaml:"parquet_export_path,omitempty"`
	CompressionCodec  string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,oneof=zstd snappy gzip none"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLitePath:        DefaultStorageSQLitePath,
		ParquetExportPath: DefaultStorageParquetExport,
		CompressionCodec:  DefaultStorageCompressionCodec,
	}
}
