package di

import (
	"acctrack/internal/backup"
	"acctrack/internal/backup/interfaces"
	"acctrack/internal/providers"
	"acctrack/internal/structures"
)

func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}

func provideCompressor() (interfaces.CompressorInterface, func(), error) {
	compressor, err := backup.NewZstdCompressor()
	if err != nil {
		return nil, nil, err
	}
	return compressor, compressor.Close, nil
}
