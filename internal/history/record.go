package history

import (
	"time"

	"github.com/localdrop/localdrop/internal/model"
)

// Incoming builds a record for a request offered to this device.
func Incoming(req *model.TransferRequest, outcome model.Outcome, errMsg string) model.TransferRecord {
	return model.TransferRecord{
		ID:        req.ID,
		Direction: model.DirectionIncoming,
		Outcome:   outcome,
		Peer:      req.Sender(),
		Files:     append([]model.FileInfo(nil), req.Data.FilesInfo...),
		TotalSize: req.TotalSize(),
		Error:     errMsg,
		Timestamp: time.Now().Unix(),
	}
}

// Outgoing builds a record for files sent from this device to peer.
func Outgoing(id, peer string, files []model.SelectedFile, outcome model.Outcome, errMsg string) model.TransferRecord {
	r := model.TransferRecord{
		ID:        id,
		Direction: model.DirectionOutgoing,
		Outcome:   outcome,
		Peer:      peer,
		Error:     errMsg,
		Timestamp: time.Now().Unix(),
	}
	for _, f := range files {
		r.Files = append(r.Files, model.FileInfo{Name: f.Name, Size: f.Size})
		r.TotalSize += f.Size
	}
	return r
}
