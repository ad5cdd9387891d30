package http

import (
	"time"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Requests

type StoneRequest struct {
	Type     string          `json:"type"`
	Shape    string          `json:"shape"`
	Color    string          `json:"color"`
	Clarity  string          `json:"clarity"`
	Setting  string          `json:"setting"`
	Notes    string          `json:"notes"`
	Weight   decimal.Decimal `json:"weight"`
	Quantity int             `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerRef       string               `json:"customerRef"`
	Priority          *int                 `json:"priority"`
	InitialGoldWeight decimal.Decimal      `json:"initialGoldWeight"`
	Purity            int                  `json:"purity"`
	DueDate           time.Time            `json:"dueDate"`
	ProductMetadata   map[string]string    `json:"productMetadata"`
	Stones            []StoneRequest       `json:"stones"`
	Assignments       map[string]uuid.UUID `json:"assignments"`
}

type UpdateOrderRequest struct {
	Priority        *int               `json:"priority"`
	DueDate         *time.Time         `json:"dueDate"`
	ProductMetadata *map[string]string `json:"productMetadata"`
}

type AssignRequest struct {
	WorkerID       uuid.UUID        `json:"workerId"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
}

type StartRequest struct {
	GoldWeightIn decimal.Decimal `json:"goldWeightIn"`
	Notes        string          `json:"notes"`
}

type CompleteRequest struct {
	GoldWeightOut decimal.Decimal `json:"goldWeightOut"`
	Notes         string          `json:"notes"`
}

type HoldRequest struct {
	Reason string `json:"reason"`
}

type FileRefDTO struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
	Kind string `json:"kind,omitempty"`
}

type WorkDataRequest struct {
	Fields map[string]any `json:"fields"`
	Files  []FileRefDTO   `json:"files"`
}

type UploadRequest struct {
	FileName    string  `json:"fileName"`
	ContentType string  `json:"contentType"`
	Department  *string `json:"department"`
}

type SubmissionRequest struct {
	FinalGoldWeight     decimal.Decimal  `json:"finalGoldWeight"`
	StoneWeight         *decimal.Decimal `json:"stoneWeight"`
	Purity              int              `json:"purity"`
	PieceCount          int              `json:"pieceCount"`
	QualityGrade        string           `json:"qualityGrade"`
	QualityNotes        string           `json:"qualityNotes"`
	Photos              []string         `json:"photos"`
	CertificateURL      string           `json:"certificateUrl"`
	AcknowledgeVariance bool             `json:"acknowledgeVariance"`
}

type ApprovalRequest struct {
	Approved *bool  `json:"approved"`
	Notes    string `json:"notes"`
}

type RegisterWorkerRequest struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Departments []string `json:"departments"`
}

// Responses

type StoneResponse struct {
	ID       uuid.UUID       `json:"id"`
	Type     string          `json:"type"`
	Shape    string          `json:"shape,omitempty"`
	Color    string          `json:"color,omitempty"`
	Clarity  string          `json:"clarity,omitempty"`
	Setting  string          `json:"setting,omitempty"`
	Notes    string          `json:"notes,omitempty"`
	Weight   decimal.Decimal `json:"weight"`
	Quantity int             `json:"quantity"`
}

type OrderResponse struct {
	ID                uuid.UUID         `json:"id"`
	Number            string            `json:"number"`
	CustomerRef       *string           `json:"customerRef,omitempty"`
	Priority          int               `json:"priority"`
	Status            string            `json:"status"`
	InitialGoldWeight decimal.Decimal   `json:"initialGoldWeight"`
	Purity            int               `json:"purity"`
	DueDate           time.Time         `json:"dueDate"`
	ProductMetadata   map[string]string `json:"productMetadata"`
	Stones            []StoneResponse   `json:"stones"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	Version           int               `json:"version"`
}

type WorkDataResponse struct {
	Fields map[string]any `json:"fields"`
	Files  []FileRefDTO   `json:"files"`
}

type DepartmentRowResponse struct {
	ID             uuid.UUID        `json:"id"`
	Department     string           `json:"department"`
	SequenceIndex  int              `json:"sequenceIndex"`
	Status         string           `json:"status"`
	AssignedTo     *uuid.UUID       `json:"assignedTo,omitempty"`
	AssignedToName string           `json:"assignedToName,omitempty"`
	GoldWeightIn   *decimal.Decimal `json:"goldWeightIn,omitempty"`
	GoldWeightOut  *decimal.Decimal `json:"goldWeightOut,omitempty"`
	GoldLoss       *decimal.Decimal `json:"goldLoss,omitempty"`
	GoldGain       bool             `json:"goldGain"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours,omitempty"`
	StartedAt      *time.Time       `json:"startedAt,omitempty"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	HoldReason     string           `json:"holdReason,omitempty"`
	WorkData       WorkDataResponse `json:"workData"`
	Progress       *int             `json:"progress,omitempty"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Version        int              `json:"version"`
}

type DepartmentBoardResponse struct {
	OrderID              uuid.UUID               `json:"orderId"`
	OrderNumber          string                  `json:"orderNumber"`
	OrderStatus          string                  `json:"orderStatus"`
	CurrentDepartment    *string                 `json:"currentDepartment,omitempty"`
	CompletionPercentage int                     `json:"completionPercentage"`
	Departments          []DepartmentRowResponse `json:"departments"`
}

type UploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileURL   string    `json:"fileUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ActivityResponse struct {
	ID         uuid.UUID  `json:"id"`
	Department *string    `json:"department,omitempty"`
	Action     string     `json:"action"`
	ActorID    *uuid.UUID `json:"actorId,omitempty"`
	ActorName  string     `json:"actorName,omitempty"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type SubmissionResponse struct {
	ID                   uuid.UUID       `json:"id"`
	OrderID              uuid.UUID       `json:"orderId"`
	InitialGoldWeight    decimal.Decimal `json:"initialGoldWeight,omitzero"`
	FinalGoldWeight      decimal.Decimal `json:"finalGoldWeight"`
	StoneWeight          decimal.Decimal `json:"stoneWeight"`
	TotalWeight          decimal.Decimal `json:"totalWeight"`
	Purity               int             `json:"purity"`
	PieceCount           int             `json:"pieceCount"`
	QualityGrade         string          `json:"qualityGrade,omitempty"`
	QualityNotes         string          `json:"qualityNotes,omitempty"`
	Photos               []string        `json:"photos"`
	CertificateURL       string          `json:"certificateUrl,omitempty"`
	VariancePercent      decimal.Decimal `json:"variancePercent"`
	VarianceAcknowledged bool            `json:"varianceAcknowledged"`
	WeightGain           bool            `json:"weightGain"`
	SubmittedBy          uuid.UUID       `json:"submittedBy"`
	SubmittedByName      string          `json:"submittedByName,omitempty"`
	SubmittedAt          time.Time       `json:"submittedAt"`
	Approval             string          `json:"approval"`
	ApprovalNotes        string          `json:"approvalNotes,omitempty"`
	ApprovalDate         *time.Time      `json:"approvalDate,omitempty"`
	Version              int             `json:"version"`
}

type WorkerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Departments []string  `json:"departments"`
}

type WorkloadResponse struct {
	WorkerID   uuid.UUID `json:"workerId"`
	Name       string    `json:"name"`
	ActiveRows int       `json:"activeRows"`
}

// Mapping

func orderFromDomain(o *order.Order, actor worker.Actor) OrderResponse {
	details := o.Details()
	resp := OrderResponse{
		ID:                o.ID().Bytes(),
		Number:            o.Number().String(),
		Priority:          o.Priority(),
		Status:            o.Status().String(),
		InitialGoldWeight: details.InitialGoldWeight().Decimal(),
		Purity:            int(details.Purity()),
		DueDate:           details.DueDate(),
		ProductMetadata:   details.ProductMetadata(),
		Stones:            make([]StoneResponse, 0, len(o.Stones())),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
		Version:           o.Version(),
	}
	if actor.Can(worker.ViewCustomer) {
		ref := o.CustomerRef()
		resp.CustomerRef = &ref
	}
	for _, s := range o.Stones() {
		attrs := s.Attributes()
		resp.Stones = append(resp.Stones, StoneResponse{
			ID:       s.ID().Bytes(),
			Type:     attrs.Type,
			Shape:    attrs.Shape,
			Color:    attrs.Color,
			Clarity:  attrs.Clarity,
			Setting:  attrs.Setting,
			Notes:    attrs.Notes,
			Weight:   s.Weight().Decimal(),
			Quantity: s.Quantity(),
		})
	}
	return resp
}

func orderFromView(v queries.GetOrderQueryResponse) OrderResponse {
	resp := OrderResponse{
		ID:                v.ID.Bytes(),
		Number:            v.Number,
		CustomerRef:       v.CustomerRef.Ptr(),
		Priority:          v.Priority,
		Status:            v.Status.String(),
		InitialGoldWeight: v.InitialGoldWeight,
		Purity:            v.Purity,
		DueDate:           v.DueDate,
		ProductMetadata:   v.ProductMetadata,
		Stones:            make([]StoneResponse, 0, len(v.Stones)),
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
		Version:           v.Version,
	}
	for _, s := range v.Stones {
		resp.Stones = append(resp.Stones, StoneResponse{
			ID:       s.ID.Bytes(),
			Type:     s.Type,
			Shape:    s.Shape,
			Color:    s.Color,
			Clarity:  s.Clarity,
			Setting:  s.Setting,
			Notes:    s.Notes,
			Weight:   s.Weight,
			Quantity: s.Quantity,
		})
	}
	return resp
}

func rowFromDomain(t *tracking.Tracking) DepartmentRowResponse {
	return DepartmentRowResponse{
		ID:             t.ID().Bytes(),
		Department:     t.Department().String(),
		SequenceIndex:  t.SequenceIndex(),
		Status:         t.Status().String(),
		AssignedTo:     uuidPtr(t.AssignedTo()),
		GoldWeightIn:   weightPtr(t.GoldWeightIn()),
		GoldWeightOut:  weightPtr(t.GoldWeightOut()),
		GoldLoss:       t.GoldLoss().Ptr(),
		GoldGain:       t.HasGoldGain(),
		EstimatedHours: t.EstimatedHours().Ptr(),
		StartedAt:      t.StartedAt().Ptr(),
		CompletedAt:    t.CompletedAt().Ptr(),
		Notes:          t.Notes(),
		HoldReason:     t.HoldReason(),
		WorkData:       workDataResponse(t.WorkData()),
		UpdatedAt:      t.UpdatedAt(),
		Version:        t.Version(),
	}
}

func boardFromView(v queries.ListDepartmentsQueryResponse) DepartmentBoardResponse {
	resp := DepartmentBoardResponse{
		OrderID:              v.OrderID.Bytes(),
		OrderNumber:          v.OrderNumber,
		OrderStatus:          v.OrderStatus.String(),
		CompletionPercentage: v.CompletionPercentage,
		Departments:          make([]DepartmentRowResponse, 0, len(v.Departments)),
	}
	if d, ok := v.CurrentDepartment.Get(); ok {
		name := d.String()
		resp.CurrentDepartment = &name
	}
	for _, d := range v.Departments {
		progress := d.Progress
		resp.Departments = append(resp.Departments, DepartmentRowResponse{
			ID:             d.ID.Bytes(),
			Department:     d.Department.String(),
			SequenceIndex:  d.SequenceIndex,
			Status:         d.Status.String(),
			AssignedTo:     uuidPtr(d.AssignedTo),
			AssignedToName: d.AssignedToName,
			GoldWeightIn:   d.GoldWeightIn.Ptr(),
			GoldWeightOut:  d.GoldWeightOut.Ptr(),
			GoldLoss:       d.GoldLoss.Ptr(),
			GoldGain:       d.GoldGain,
			EstimatedHours: d.EstimatedHours.Ptr(),
			StartedAt:      d.StartedAt.Ptr(),
			CompletedAt:    d.CompletedAt.Ptr(),
			Notes:          d.Notes,
			HoldReason:     d.HoldReason,
			WorkData:       workDataResponse(d.WorkData),
			Progress:       &progress,
			UpdatedAt:      d.UpdatedAt,
			Version:        d.Version,
		})
	}
	return resp
}

func workDataResponse(w tracking.WorkData) WorkDataResponse {
	resp := WorkDataResponse{Fields: w.Fields, Files: make([]FileRefDTO, 0, len(w.Files))}
	if resp.Fields == nil {
		resp.Fields = map[string]any{}
	}
	for _, f := range w.Files {
		resp.Files = append(resp.Files, FileRefDTO{Name: f.Name, URL: f.URL, Kind: f.Kind})
	}
	return resp
}

func submissionFromDomain(s *submission.FinalSubmission) SubmissionResponse {
	approval := s.Approval()
	photos := s.Photos()
	if photos == nil {
		photos = []string{}
	}
	return SubmissionResponse{
		ID:                   s.ID().Bytes(),
		OrderID:              s.OrderID().Bytes(),
		FinalGoldWeight:      s.FinalGoldWeight().Decimal(),
		StoneWeight:          s.StoneWeight().Decimal(),
		TotalWeight:          s.TotalWeight(),
		Purity:               int(s.Purity()),
		PieceCount:           s.PieceCount(),
		QualityGrade:         s.QualityGrade(),
		QualityNotes:         s.QualityNotes(),
		Photos:               photos,
		CertificateURL:       s.CertificateURL(),
		VariancePercent:      s.Variance().Rounded(),
		VarianceAcknowledged: s.VarianceAcknowledged(),
		WeightGain:           s.Variance().IsGain(),
		SubmittedBy:          s.SubmittedBy().Bytes(),
		SubmittedAt:          s.SubmittedAt(),
		Approval:             string(approvalState(approval)),
		ApprovalNotes:        approval.Notes,
		ApprovalDate:         approval.ApprovalDate.Ptr(),
		Version:              s.Version(),
	}
}

func approvalState(a submission.Approval) queries.ApprovalState {
	switch {
	case !a.IsDecided():
		return queries.ApprovalPending
	case a.CustomerApproved:
		return queries.ApprovalApproved
	default:
		return queries.ApprovalRejected
	}
}

func submissionFromView(v queries.GetSubmissionQueryResponse) SubmissionResponse {
	photos := v.Photos
	if photos == nil {
		photos = []string{}
	}
	return SubmissionResponse{
		ID:                   v.ID.Bytes(),
		OrderID:              v.OrderID.Bytes(),
		InitialGoldWeight:    v.InitialGoldWeight,
		FinalGoldWeight:      v.FinalGoldWeight,
		StoneWeight:          v.StoneWeight,
		TotalWeight:          v.TotalWeight,
		Purity:               v.Purity,
		PieceCount:           v.PieceCount,
		QualityGrade:         v.QualityGrade,
		QualityNotes:         v.QualityNotes,
		Photos:               photos,
		CertificateURL:       v.CertificateURL,
		VariancePercent:      v.VariancePercent,
		VarianceAcknowledged: v.VarianceAcknowledged,
		WeightGain:           v.WeightGain,
		SubmittedBy:          v.SubmittedBy.Bytes(),
		SubmittedByName:      v.SubmittedByName,
		SubmittedAt:          v.SubmittedAt,
		Approval:             string(v.Approval),
		ApprovalNotes:        v.ApprovalNotes,
		ApprovalDate:         v.ApprovalDate.Ptr(),
		Version:              v.Version,
	}
}

func activityFromView(entries []queries.ListActivityQueryResponse) []ActivityResponse {
	resp := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		item := ActivityResponse{
			ID:        e.ID.Bytes(),
			Action:    string(e.Action),
			ActorID:   uuidPtr(e.ActorID),
			ActorName: e.ActorName,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		}
		if d, ok := e.Department.Get(); ok {
			name := d.String()
			item.Department = &name
		}
		resp = append(resp, item)
	}
	return resp
}

func workerResponse(id kernel.UUID, name string, role worker.Role, departments []department.Department) WorkerResponse {
	resp := WorkerResponse{
		ID:          id.Bytes(),
		Name:        name,
		Role:        role.String(),
		Departments: make([]string, 0, len(departments)),
	}
	for _, d := range departments {
		resp.Departments = append(resp.Departments, d.String())
	}
	return resp
}

func workloadFromView(rows []queries.WorkerWorkloadQueryResponse) []WorkloadResponse {
	resp := make([]WorkloadResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, WorkloadResponse{WorkerID: r.WorkerID.Bytes(), Name: r.Name, ActiveRows: r.ActiveRows})
	}
	return resp
}

func uuidPtr(o kernel.Option[kernel.UUID]) *uuid.UUID {
	id, ok := o.Get()
	if !ok {
		return nil
	}
	u := id.Bytes()
	return &u
}

func weightPtr(o kernel.Option[kernel.Weight]) *decimal.Decimal {
	w, ok := o.Get()
	if !ok {
		return nil
	}
	d := w.Decimal()
	return &d
}
