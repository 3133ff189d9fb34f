package inmemdb

import (
	"github.com/hesedu/shikshya/core/billing"
)

type billingRepository struct {
	db *billingTable
}

func NewBillingRepository(db *DB) billing.Repository {
	return &billingRepository{db: db.billing}
}

func (repo *billingRepository) CreateFee(fee billing.FeeRecord) (billing.FeeRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.fees = append([]*billing.FeeRecord{&fee}, repo.db.fees...)
	return fee, nil
}

func (repo *billingRepository) GetFeeByID(id string) (billing.FeeRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, fee := range repo.db.fees {
		if fee.ID == id {
			return *fee, nil
		}
	}
	return billing.FeeRecord{}, billing.ErrFeeNotFound
}

func (repo *billingRepository) QueryAllFees() ([]billing.FeeRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	fees := make([]billing.FeeRecord, 0, len(repo.db.fees))
	for _, fee := range repo.db.fees {
		fees = append(fees, *fee)
	}
	return fees, nil
}

func (repo *billingRepository) QueryFeesByStudent(studentID string) ([]billing.FeeRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var fees []billing.FeeRecord
	for _, fee := range repo.db.fees {
		if fee.StudentID == studentID {
			fees = append(fees, *fee)
		}
	}
	return fees, nil
}

func (repo *billingRepository) FeeExists(studentID, structureID, period string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if structureID == "" || period == "" {
		return false, nil
	}
	for _, fee := range repo.db.fees {
		if fee.StudentID == studentID && fee.StructureID == structureID && fee.Period == period {
			return true, nil
		}
	}
	return false, nil
}

func (repo *billingRepository) UpdateFee(fee billing.FeeRecord) (billing.FeeRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, orig := range repo.db.fees {
		if orig.ID != fee.ID {
			continue
		}
		if orig.Version != fee.Version-1 {
			return billing.FeeRecord{}, billing.ErrVersionConflict
		}
		repo.db.fees[i] = &fee
		return fee, nil
	}
	return billing.FeeRecord{}, billing.ErrFeeNotFound
}

func (repo *billingRepository) CreateStructure(structure billing.FeeStructure) (billing.FeeStructure, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.structures = append(repo.db.structures, &structure)
	return structure, nil
}

func (repo *billingRepository) QueryAllStructures() ([]billing.FeeStructure, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	structures := make([]billing.FeeStructure, 0, len(repo.db.structures))
	for _, structure := range repo.db.structures {
		structures = append(structures, *structure)
	}
	return structures, nil
}

func (repo *billingRepository) AppendPayment(payment billing.PaymentTransaction) (billing.PaymentTransaction, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.payments = append([]*billing.PaymentTransaction{&payment}, repo.db.payments...)
	return payment, nil
}

func (repo *billingRepository) QueryAllPayments() ([]billing.PaymentTransaction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	payments := make([]billing.PaymentTransaction, 0, len(repo.db.payments))
	for _, payment := range repo.db.payments {
		payments = append(payments, *payment)
	}
	return payments, nil
}
