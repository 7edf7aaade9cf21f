package pebbledb

import (
	"fmt"
	"runtime"

	"github.com/cockroachdb/pebble"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Options is the store tuning block (db.seriesdb in the config file). Zero fields keep the engine
// default. Names follow the RocksDB options operators already know.
type Options struct {
	TableCacheNumShardBits            int     `yaml:"table_cache_num_shard_bits"`
	WriteBufferSize                   uint64  `yaml:"write_buffer_size"`
	MaxWriteBufferNumber              int     `yaml:"max_write_buffer_number"`
	MinWriteBufferNumberToMerge       int     `yaml:"min_write_buffer_number_to_merge"`
	MaxBytesForLevelBase              int64   `yaml:"max_bytes_for_level_base"`
	MaxBytesForLevelMultiplier        float64 `yaml:"max_bytes_for_level_multiplier"`
	TargetFileSizeBase                int64   `yaml:"target_file_size_base"`
	TargetFileSizeMultiplier          int     `yaml:"target_file_size_multiplier"`
	LevelZeroFileNumCompactionTrigger int     `yaml:"level_zero_file_num_compaction_trigger"`
	MaxBackgroundJobs                 int     `yaml:"max_background_jobs"`
	// BlockCacheSize is the shared block cache in bytes.
	BlockCacheSize int64 `yaml:"block_cache_size"`
}

// Validate rejects negative sizes and counts.
func (o Options) Validate() error {
	switch {
	case o.TableCacheNumShardBits < 0 || o.TableCacheNumShardBits > 16:
		return fmt.Errorf("table_cache_num_shard_bits must be 0-16")
	case o.MaxWriteBufferNumber < 0:
		return fmt.Errorf("max_write_buffer_number must not be negative")
	case o.MinWriteBufferNumberToMerge < 0:
		return fmt.Errorf("min_write_buffer_number_to_merge must not be negative")
	case o.MaxBytesForLevelBase < 0:
		return fmt.Errorf("max_bytes_for_level_base must not be negative")
	case o.MaxBytesForLevelMultiplier < 0:
		return fmt.Errorf("max_bytes_for_level_multiplier must not be negative")
	case o.TargetFileSizeBase < 0:
		return fmt.Errorf("target_file_size_base must not be negative")
	case o.TargetFileSizeMultiplier < 0:
		return fmt.Errorf("target_file_size_multiplier must not be negative")
	case o.LevelZeroFileNumCompactionTrigger < 0:
		return fmt.Errorf("level_zero_file_num_compaction_trigger must not be negative")
	case o.MaxBackgroundJobs < 0:
		return fmt.Errorf("max_background_jobs must not be negative")
	case o.BlockCacheSize < 0:
		return fmt.Errorf("block_cache_size must not be negative")
	}
	return nil
}

// pebbleOptions translates Options into engine options. Settings pebble has no knob for are logged
// once and otherwise ignored.
func (o Options) pebbleOptions(logger log.Logger) *pebble.Options {
	opts := &pebble.Options{}

	if o.WriteBufferSize > 0 {
		opts.MemTableSize = o.WriteBufferSize
	}
	if o.MaxWriteBufferNumber > 0 {
		opts.MemTableStopWritesThreshold = o.MaxWriteBufferNumber
	}
	if o.MaxBytesForLevelBase > 0 {
		opts.LBaseMaxBytes = o.MaxBytesForLevelBase
	}
	if o.LevelZeroFileNumCompactionTrigger > 0 {
		opts.L0CompactionThreshold = o.LevelZeroFileNumCompactionTrigger
		if opts.L0StopWritesThreshold < 4*o.LevelZeroFileNumCompactionTrigger {
			opts.L0StopWritesThreshold = 4 * o.LevelZeroFileNumCompactionTrigger
		}
	}
	if o.MaxBackgroundJobs > 0 {
		jobs := o.MaxBackgroundJobs
		opts.MaxConcurrentCompactions = func() int { return jobs }
	} else {
		opts.MaxConcurrentCompactions = func() int { return max(1, runtime.GOMAXPROCS(0)/2) }
	}
	if o.TargetFileSizeBase > 0 {
		mult := int64(max(1, o.TargetFileSizeMultiplier))
		size := o.TargetFileSizeBase
		opts.Levels = make([]pebble.LevelOptions, 7)
		for i := range opts.Levels {
			opts.Levels[i].TargetFileSize = size
			size *= mult
		}
	}

	var ignored []any
	if o.TableCacheNumShardBits > 0 {
		ignored = append(ignored, "table_cache_num_shard_bits", o.TableCacheNumShardBits)
	}
	if o.MinWriteBufferNumberToMerge > 0 {
		ignored = append(ignored, "min_write_buffer_number_to_merge", o.MinWriteBufferNumberToMerge)
	}
	if o.MaxBytesForLevelMultiplier > 0 {
		ignored = append(ignored, "max_bytes_for_level_multiplier", o.MaxBytesForLevelMultiplier)
	}
	if len(ignored) > 0 {
		level.Warn(logger).Log(append([]any{"msg", "store options without engine equivalent are ignored"}, ignored...)...)
	}

	return opts.EnsureDefaults()
}
