package models

import (
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Member status helpers
// ---------------------------------------------------------------------------

func TestValidMemberStatus(t *testing.T) {
	valid := []string{MemberStatusActive, MemberStatusInactive, MemberStatusVisitor, MemberStatusTransferred}
	for _, s := range valid {
		if !ValidMemberStatus(s) {
			t.Errorf("ValidMemberStatus(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "active", "ATIVO", "unknown"}
	for _, s := range invalid {
		if ValidMemberStatus(s) {
			t.Errorf("ValidMemberStatus(%q) = true, want false", s)
		}
	}
}

func TestMember_IsActive(t *testing.T) {
	m := &Member{Status: MemberStatusActive}
	if !m.IsActive() {
		t.Error("IsActive() should be true for ativo status")
	}
	m.Status = MemberStatusVisitor
	if m.IsActive() {
		t.Error("IsActive() should be false for visitante status")
	}
}

// ---------------------------------------------------------------------------
// Finance type helpers
// ---------------------------------------------------------------------------

func TestValidFinanceType(t *testing.T) {
	if !ValidFinanceType(FinanceTypeIncome) || !ValidFinanceType(FinanceTypeExpense) {
		t.Error("ValidFinanceType should accept entrada and saida")
	}
	for _, s := range []string{"", "income", "ENTRADA", "despesa"} {
		if ValidFinanceType(s) {
			t.Errorf("ValidFinanceType(%q) = true, want false", s)
		}
	}
}

func TestFinance_SignedAmount(t *testing.T) {
	income := &Finance{Type: FinanceTypeIncome, Amount: 100.50}
	if got := income.SignedAmount(); got != 100.50 {
		t.Errorf("SignedAmount() for income = %v, want 100.50", got)
	}
	expense := &Finance{Type: FinanceTypeExpense, Amount: 40.25}
	if got := expense.SignedAmount(); got != -40.25 {
		t.Errorf("SignedAmount() for expense = %v, want -40.25", got)
	}
}

// ---------------------------------------------------------------------------
// ProfileWithRoles helpers
// ---------------------------------------------------------------------------

func TestProfileWithRoles_HasRole(t *testing.T) {
	p := &ProfileWithRoles{
		Roles: []RoleAssignment{
			{Role: "admin"},
			{Role: "leader"},
		},
	}
	if !p.HasRole("admin") {
		t.Error("HasRole(admin) should be true")
	}
	if p.HasRole("master") {
		t.Error("HasRole(master) should be false")
	}
}

func TestProfileWithRoles_RoleNames_Deduplicates(t *testing.T) {
	p := &ProfileWithRoles{
		Roles: []RoleAssignment{
			{Role: "admin"},
			{Role: "admin"},
			{Role: "member"},
		},
	}
	names := p.RoleNames()
	if len(names) != 2 {
		t.Errorf("RoleNames() returned %d names, want 2: %v", len(names), names)
	}
}

func TestProfileWithRoles_NoRoles(t *testing.T) {
	p := &ProfileWithRoles{}
	if p.HasRole("member") {
		t.Error("HasRole should be false with no assignments")
	}
	if len(p.RoleNames()) != 0 {
		t.Error("RoleNames should be empty with no assignments")
	}
}

// ---------------------------------------------------------------------------
// Event helpers
// ---------------------------------------------------------------------------

func TestEvent_IsUpcoming(t *testing.T) {
	now := time.Now()
	future := &Event{StartsAt: now.Add(time.Hour)}
	if !future.IsUpcoming(now) {
		t.Error("IsUpcoming() should be true for a future event")
	}
	past := &Event{StartsAt: now.Add(-time.Hour)}
	if past.IsUpcoming(now) {
		t.Error("IsUpcoming() should be false for a past event")
	}
}
