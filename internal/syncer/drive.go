package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

// driveFileName is the single data file kept in the user's Drive.
const driveFileName = "libertad-financiera-data.json"

// DriveClient implements Client against one JSON file in Google Drive.
type DriveClient struct {
	svc    *drive.Service
	fileID string
	log    *logrus.Logger
}

// NewDriveClient builds the Drive service, then finds the data file or
// creates it with an empty document.
func NewDriveClient(ctx context.Context, log *logrus.Logger, opts ...option.ClientOption) (*DriveClient, error) {
	if log == nil {
		log = logrus.New()
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, classifyDriveErr("create drive service", err)
	}
	c := &DriveClient{svc: svc, log: log}
	if err := c.findOrCreateFile(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *DriveClient) findOrCreateFile(ctx context.Context) error {
	query := fmt.Sprintf("name='%s' and trashed=false", driveFileName)
	list, err := c.svc.Files.List().Q(query).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return classifyDriveErr("list files", err)
	}
	if len(list.Files) > 0 {
		c.fileID = list.Files[0].Id
		c.log.WithField("fileId", c.fileID).Info("found remote data file")
		return nil
	}

	initial, err := json.Marshal(RemoteDocument{
		Transactions: []storage.Transaction{},
		LastSync:     time.Now(),
		Version:      RemoteVersion,
	})
	if err != nil {
		return err
	}
	f, err := c.svc.Files.Create(&drive.File{
		Name:     driveFileName,
		MimeType: "application/json",
	}).Media(bytes.NewReader(initial)).Context(ctx).Do()
	if err != nil {
		return classifyDriveErr("create file", err)
	}
	c.fileID = f.Id
	c.log.WithField("fileId", c.fileID).Info("created remote data file")
	return nil
}

func (c *DriveClient) CheckConnection(ctx context.Context) bool {
	_, err := c.LoadRemote(ctx)
	return err == nil
}

func (c *DriveClient) LoadRemote(ctx context.Context) ([]storage.Transaction, error) {
	resp, err := c.svc.Files.Get(c.fileID).Context(ctx).Download()
	if err != nil {
		return nil, classifyDriveErr("download", err)
	}
	defer resp.Body.Close()

	var doc RemoteDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: malformed remote document: %v", ErrNetwork, err)
	}
	return doc.Transactions, nil
}

func (c *DriveClient) SaveRemote(ctx context.Context, txns []storage.Transaction) error {
	doc := RemoteDocument{
		Transactions: txns,
		LastSync:     time.Now(),
		Version:      RemoteVersion,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = c.svc.Files.Update(c.fileID, &drive.File{}).
		Media(bytes.NewReader(data)).Context(ctx).Do()
	if err != nil {
		return classifyDriveErr("upload", err)
	}
	return nil
}

func (c *DriveClient) Metadata(ctx context.Context) (*FileInfo, error) {
	if c.fileID == "" {
		return nil, nil
	}
	f, err := c.svc.Files.Get(c.fileID).Fields("modifiedTime", "size").Context(ctx).Do()
	if err != nil {
		return nil, classifyDriveErr("get metadata", err)
	}
	modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("%w: bad modifiedTime: %v", ErrNetwork, err)
	}
	return &FileInfo{LastModified: modified, SizeBytes: f.Size}, nil
}

func classifyDriveErr(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 401 || gerr.Code == 403) {
		return fmt.Errorf("%w: %s: %v", ErrAuth, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrNetwork, op, err)
}
