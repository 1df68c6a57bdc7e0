package handler

import (
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// ListParams holds the paging and search parameters shared by every list
// route. "query" is accepted as an alias of "term". It is exported so echo's
// binder can reach it when embedded.
//
// PageSize is a pointer so an omitted pageSize can be told apart from an
// explicit 0, which is rejected.
type ListParams struct {
	Term     string `query:"term"`
	Query    string `query:"query"`
	Page     int    `query:"page"     validate:"gte=0"`
	PageSize *int   `query:"pageSize" validate:"omitempty,gte=1"`
}

// descriptor builds the query descriptor. An absent pageSize means the
// default and sizes above maxPageSize are capped.
func (r ListParams) descriptor(filters map[string]string) query.Descriptor {
	term := r.Term
	if term == "" {
		term = r.Query
	}
	size := defaultPageSize
	if r.PageSize != nil {
		size = min(*r.PageSize, maxPageSize)
	}
	return query.Descriptor{Term: term, Filters: filters, Page: r.Page, PageSize: size}
}

type accountListRequest struct {
	ListParams
	Status   string `query:"status"   validate:"omitempty,oneof=all active inactive"`
	Role     string `query:"role"     validate:"omitempty,oneof=all user cvc admin"`
	Calendar string `query:"calendar" validate:"omitempty,oneof=all connected disconnected"`
}

func (r accountListRequest) toDescriptor() query.Descriptor {
	return r.descriptor(map[string]string{
		domain.AccountFilterStatus:   r.Status,
		domain.AccountFilterRole:     r.Role,
		domain.AccountFilterCalendar: r.Calendar,
	})
}

type counselorListRequest struct {
	ListParams
	Status    string `query:"status"    validate:"omitempty,oneof=all pending approved rejected suspended"`
	Specialty string `query:"specialty"`
}

func (r counselorListRequest) toDescriptor() query.Descriptor {
	return r.descriptor(map[string]string{
		domain.CounselorFilterStatus:    r.Status,
		domain.CounselorFilterSpecialty: r.Specialty,
	})
}

type meetingListRequest struct {
	ListParams
	Status string `query:"status" validate:"omitempty,oneof=all scheduled completed cancelled no-show"`
	Type   string `query:"type"   validate:"omitempty,oneof=all individual group"`
}

func (r meetingListRequest) toDescriptor() query.Descriptor {
	return r.descriptor(map[string]string{
		domain.MeetingFilterStatus: r.Status,
		domain.MeetingFilterType:   r.Type,
	})
}

type payoutListRequest struct {
	ListParams
	Status string `query:"status" validate:"omitempty,oneof=all pending processing completed failed"`
}

func (r payoutListRequest) toDescriptor() query.Descriptor {
	return r.descriptor(map[string]string{domain.PayoutFilterStatus: r.Status})
}

type auditListRequest struct {
	ListParams
	Action string `query:"action"`
}

func (r auditListRequest) toDescriptor() query.Descriptor {
	return r.descriptor(map[string]string{domain.AuditFilterAction: r.Action})
}
