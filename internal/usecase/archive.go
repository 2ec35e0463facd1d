package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/filesystem"
	"github.com/fondspod/fondspod/internal/logger"
	"github.com/fondspod/fondspod/internal/services"
)

// Archive keeps files and items in step with their folders under the library root.
type Archive struct {
	root           string
	archiveService *services.ArchiveService
	log            *logger.Logger
}

func NewArchive(dbCtx *database.Context, root string, log *logger.Logger, opts ...services.Option) *Archive {
	if log == nil {
		log = logger.Nop()
	}
	opts = append([]services.Option{services.WithLogger(log)}, opts...)
	return &Archive{
		root:           root,
		archiveService: services.NewArchiveService(dbCtx, opts...),
		log:            log,
	}
}

// CreateFile creates the file record and its folder.
func (u *Archive) CreateFile(ctx context.Context, seriesNo, name string) (*database.FileRecord, string, error) {
	file, err := u.archiveService.CreateFile(ctx, seriesNo, name)
	if err != nil {
		return nil, "", err
	}

	dir, err := filesystem.EnsureFileFolder(u.root, file.FileNo)
	if err != nil {
		return file, "", err
	}
	return file, dir, nil
}

// DeleteFile deletes an empty file and then its folder if the folder is empty.
func (u *Archive) DeleteFile(ctx context.Context, fileNo string) (bool, error) {
	deleted, err := u.archiveService.DeleteFile(ctx, fileNo)
	if err != nil || !deleted {
		return deleted, err
	}

	removed, err := filesystem.RemoveFileFolder(u.root, fileNo)
	if err != nil {
		return true, fmt.Errorf("remove folder of file %s: %w", fileNo, err)
	}
	if !removed {
		u.log.Debug("file folder kept", "file_no", fileNo, "folder", filesystem.FileFolder(u.root, fileNo))
	}
	return true, nil
}

// AddItemInput describes an item. With Copy set, Source is copied into the
// file's folder and the copy becomes the item's path.
type AddItemInput struct {
	FileNo string
	Name   string
	Source string
	Copy   bool
}

type AddItemResult struct {
	Item database.ItemRecord
	Hash string
}

func (u *Archive) AddItem(ctx context.Context, input AddItemInput) (*AddItemResult, error) {
	path := input.Source
	var hash string

	if input.Copy {
		if input.Source == "" {
			return nil, fmt.Errorf("add item: nothing to copy: %w", database.ErrMalformedInput)
		}
		if !filesystem.FileExists(input.Source) {
			return nil, fmt.Errorf("add item: source %s: %w", input.Source, database.ErrNotFound)
		}

		file, err := u.archiveService.GetFile(ctx, input.FileNo)
		if err != nil {
			return nil, err
		}

		stored, sum, err := filesystem.StoreAttachment(u.root, file.FileNo, input.Source)
		if err != nil {
			return nil, err
		}
		path, hash = stored, sum
	}

	item, err := u.archiveService.CreateItem(ctx, input.FileNo, input.Name, path)
	if err != nil {
		if hash != "" {
			if rmErr := filesystem.RemoveAttachment(path); rmErr != nil {
				err = errors.Join(err, rmErr)
			}
		}
		return nil, err
	}

	if hash != "" {
		u.log.Info("attachment stored", "item_no", item.ItemNo, "path", path, "sha256", hash)
	}
	return &AddItemResult{Item: *item, Hash: hash}, nil
}

// DeleteItem deletes the item record. Attachments stay on disk.
func (u *Archive) DeleteItem(ctx context.Context, itemNo string) (bool, error) {
	return u.archiveService.DeleteItem(ctx, itemNo)
}
