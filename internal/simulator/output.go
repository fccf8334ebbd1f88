package simulator

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sort"
	"sync"

	"github.com/chrisdamba/seatyield/internal/cloudwriter"
	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/simulator/producers"
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct {
	w io.Writer
}

// partitionFiles keeps one open file per topic and date partition.
type partitionFiles struct {
	root  string
	name  string
	files map[string]*os.File
}

type JSONOutput struct {
	mu    sync.Mutex
	files partitionFiles
}

type CSVOutput struct {
	mu      sync.Mutex
	files   partitionFiles
	writers map[string]*csv.Writer
	headers map[string][]string
}

type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func newPartitionFiles(basePath, folder, name string) partitionFiles {
	return partitionFiles{
		root:  filepath.Join(basePath, folder),
		name:  name,
		files: make(map[string]*os.File),
	}
}

// open returns the file for topic/partition, creating it and its directories
// on first use. created reports whether this call made the file.
func (pf partitionFiles) open(topic, partitionPath string) (f *os.File, created bool, err error) {
	key := topic + "/" + partitionPath
	if existing, ok := pf.files[key]; ok {
		return existing, false, nil
	}
	dir := filepath.Join(pf.root, topic, partitionPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, false, err
	}
	f, err = os.Create(filepath.Join(dir, pf.name))
	if err != nil {
		return nil, false, err
	}
	pf.files[key] = f
	return f, true, nil
}

func (pf partitionFiles) closeAll() error {
	var lastErr error
	for key, f := range pf.files {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(pf.files, key)
	}
	return lastErr
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{files: newPartitionFiles(basePath, folder, "data.json")}
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		files:   newPartitionFiles(basePath, folder, "data.csv"),
		writers: make(map[string]*csv.Writer),
		headers: make(map[string][]string),
	}
}

// NewParquetOutput writes under output.path locally, or uploads each file on
// Close when output.storage is "cloud".
func NewParquetOutput(ctx context.Context, config *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: config.Output.Path,
		folder:   config.Output.Folder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	if config.Output.Storage == "cloud" {
		var factory cloudwriter.CloudWriterFactory
		var err error

		cs := config.Output.CloudStorage
		switch cs.Provider {
		case "s3":
			factory, err = cloudwriter.NewS3WriterFactory(ctx, cs.Region, cs.Endpoint)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cs.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		p.cloudWriterFactory = factory
		p.cloudBucketName = cs.BucketName
	}

	return p, nil
}

// NewOutputDestination picks the sink named by output.destination.
func NewOutputDestination(ctx context.Context, config *models.Config, console io.Writer) (OutputDestination, error) {
	switch config.Output.Destination {
	case "", "console":
		return NewConsoleOutput(console), nil
	case "json":
		return NewJSONOutput(config.Output.Path, config.Output.Folder), nil
	case "csv":
		return NewCSVOutput(config.Output.Path, config.Output.Folder), nil
	case "parquet":
		out, err := NewParquetOutput(ctx, config)
		if err != nil {
			return nil, err
		}
		return out, nil
	case "kafka":
		out, err := producers.NewSaramaProducer(config.Kafka)
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported output destination: %s", config.Output.Destination)
	}
}

const unknownPartition = "date=unknown"

// partition returns the date=YYYY-MM-DD directory for a record, or
// date=unknown when the record carries no target date.
func partition(msg []byte) (string, error) {
	var head struct {
		TargetDate string `json:"targetDate"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return "", err
	}
	if head.TargetDate == "" {
		return unknownPartition, nil
	}
	return "date=" + head.TargetDate, nil
}

func decodeEvent(msg []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var event map[string]interface{}
	if err := dec.Decode(&event); err != nil {
		return nil, err
	}
	return event, nil
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	if !json.Valid(msg) {
		return fmt.Errorf("invalid json record for %s", topic)
	}
	partitionPath, err := partition(msg)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, _, err := j.files.open(topic, partitionPath)
	if err != nil {
		return err
	}
	line := make([]byte, 0, len(msg)+1)
	line = append(append(line, msg...), '\n')
	_, err = file.Write(line)
	return err
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files.closeAll()
}

// WriteMessage fixes the column set from the first record of each file;
// later records fill those columns and leave missing ones empty.
func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	event, err := decodeEvent(msg)
	if err != nil {
		return err
	}
	partitionPath, err := partition(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	file, created, err := c.files.open(topic, partitionPath)
	if err != nil {
		return err
	}
	key := topic + "/" + partitionPath
	if created {
		c.writers[key] = csv.NewWriter(file)
		c.headers[key] = headersOf(event)
		if err := c.writers[key].Write(c.headers[key]); err != nil {
			return err
		}
	}

	cw, header := c.writers[key], c.headers[key]
	row := make([]string, len(header))
	for i, col := range header {
		if v, ok := event[col]; ok {
			row[i] = fmt.Sprint(v)
		}
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func headersOf(event map[string]interface{}) []string {
	cols := make([]string, 0, len(event))
	for k := range event {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func (c *CSVOutput) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for key, cw := range c.writers {
		cw.Flush()
		if err := cw.Error(); err != nil {
			lastErr = err
		}
		delete(c.writers, key)
		delete(c.headers, key)
	}
	if err := c.files.closeAll(); err != nil {
		lastErr = err
	}
	return lastErr
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	rec, err := NewRecord(topic)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(msg, rec); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", topic, err)
	}
	partitionPath, err := partition(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	writerKey := topic + "/" + partitionPath
	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partitionPath)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(reflect.ValueOf(rec).Elem().Interface()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partitionPath string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partitionPath, "data.parquet")
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partitionPath)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	rec, err := NewRecord(topic)
	if err != nil {
		return nil, err
	}
	pw, err := writer.NewParquetWriter(fw, rec, 4)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			log.Error().Err(err).Str("key", key).Msg("error closing parquet writer")
		}
		if err := p.files[key].Close(); err != nil {
			lastErr = err
			log.Error().Err(err).Str("key", key).Msg("error closing parquet file")
		}
		delete(p.writers, key)
		delete(p.files, key)
	}
	return lastErr
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the receiver: the object exists once Close uploads it.
func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	n, err = c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
