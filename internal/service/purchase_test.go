package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"pdfmarket/internal/model"
	repoMocks "pdfmarket/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeDoc(id, uploaderID string, price int) *model.Document {
	return &model.Document{
		ID:          id,
		Title:       "Guide",
		UploaderID:  uploaderID,
		PricePoints: price,
		IsActive:    true,
		StoragePath: "pdfs/" + id + ".pdf",
		CreatedAt:   time.Now().UTC(),
	}
}

func account(id string, balance int) *model.Account {
	return &model.Account{
		ID:               id,
		UserName:         id,
		Email:            id + "@example.com",
		Role:             model.RoleUser,
		PointsBalance:    balance,
		OwnedDocumentIDs: []string{},
	}
}

func newPurchaseFixture() (*repoMocks.MockAccountRepository, *repoMocks.MockDocumentRepository, *repoMocks.MockPurchaseRepository, PurchaseService) {
	mAcc := new(repoMocks.MockAccountRepository)
	mDoc := new(repoMocks.MockDocumentRepository)
	mPur := new(repoMocks.MockPurchaseRepository)
	atomic := &repoMocks.PassthroughAtomic{AccountRepo: mAcc, PurchaseRepo: mPur}
	svc := NewPurchaseService(mDoc, mPur, atomic)
	return mAcc, mDoc, mPur, svc
}

func TestPurchaseService_Purchase_MovesPointsBetweenDistinctAccounts(t *testing.T) {
	ctx := context.Background()
	mAcc, mDoc, mPur, svc := newPurchaseFixture()

	buyer := account("buyer", 50)
	seller := account("seller", 5)
	doc := activeDoc("doc1", "seller", 10)

	mDoc.On("FindByID", ctx, "doc1").Return(doc, nil)
	mAcc.On("FindByID", ctx, "buyer").Return(buyer, nil)
	mAcc.On("FindByID", ctx, "seller").Return(seller, nil)
	mAcc.On("Replace", ctx, buyer).Return(nil)
	mAcc.On("Replace", ctx, seller).Return(nil)
	mPur.On("Create", ctx, mock.Anything).
		Return(func(ctx context.Context, p *model.Purchase) *model.Purchase { return p }, nil)

	before := buyer.PointsBalance + seller.PointsBalance

	res, err := svc.Purchase(ctx, "buyer", "doc1")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 40, buyer.PointsBalance)
	assert.Equal(t, 15, seller.PointsBalance)
	assert.Equal(t, 40, res.BuyerBalance)
	assert.Equal(t, "doc1", res.Purchase.DocumentID)
	assert.Equal(t, "buyer", res.Purchase.BuyerID)
	assert.Equal(t, 10, res.Purchase.PricePoints)
	assert.NotEmpty(t, res.Purchase.ID)
	assert.Contains(t, buyer.OwnedDocumentIDs, "doc1")

	// Conservation: the sum of balances is unchanged by a purchase between
	// two distinct accounts.
	assert.Equal(t, before, buyer.PointsBalance+seller.PointsBalance)

	mAcc.AssertExpectations(t)
	mDoc.AssertExpectations(t)
	mPur.AssertExpectations(t)
}

func TestPurchaseService_Purchase_SelfPurchaseDebitsWithoutCredit(t *testing.T) {
	ctx := context.Background()
	mAcc, mDoc, mPur, svc := newPurchaseFixture()

	owner := account("owner", 20)
	doc := activeDoc("doc1", "owner", 10)

	mDoc.On("FindByID", ctx, "doc1").Return(doc, nil)
	mAcc.On("FindByID", ctx, "owner").Return(owner, nil)
	mAcc.On("Replace", ctx, owner).Return(nil).Once()
	mPur.On("Create", ctx, mock.MatchedBy(func(p *model.Purchase) bool {
		return p.BuyerID == "owner" && p.PricePoints == 10
	})).Return(func(ctx context.Context, p *model.Purchase) *model.Purchase { return p }, nil).Once()

	res, err := svc.Purchase(ctx, "owner", "doc1")
	require.NoError(t, err)

	// The debit is the entire economic effect: total points drop by the
	// price and exactly one account write happens.
	assert.Equal(t, 10, owner.PointsBalance)
	assert.Equal(t, 10, res.BuyerBalance)

	mAcc.AssertExpectations(t)
	mPur.AssertExpectations(t)
	mAcc.AssertNumberOfCalls(t, "Replace", 1)
}

func TestPurchaseService_Purchase_InsufficientPoints(t *testing.T) {
	ctx := context.Background()
	mAcc, mDoc, mPur, svc := newPurchaseFixture()

	buyer := account("buyer", 0)
	seller := account("seller", 5)
	doc := activeDoc("doc1", "seller", 10)

	mDoc.On("FindByID", ctx, "doc1").Return(doc, nil)
	mAcc.On("FindByID", ctx, "buyer").Return(buyer, nil)
	mAcc.On("FindByID", ctx, "seller").Return(seller, nil)

	res, err := svc.Purchase(ctx, "buyer", "doc1")

	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Nil(t, res)
	// Nothing was mutated or written.
	assert.Equal(t, 0, buyer.PointsBalance)
	assert.Equal(t, 5, seller.PointsBalance)
	assert.Empty(t, buyer.OwnedDocumentIDs)
	mAcc.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	mPur.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPurchaseService_Purchase_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		buyerID    string
		documentID string
		setupMocks func(mAcc *repoMocks.MockAccountRepository, mDoc *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name:       "document not found",
			buyerID:    "buyer",
			documentID: "missing",
			setupMocks: func(mAcc *repoMocks.MockAccountRepository, mDoc *repoMocks.MockDocumentRepository) {
				mDoc.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "inactive document is invisible to purchase",
			buyerID:    "buyer",
			documentID: "doc1",
			setupMocks: func(mAcc *repoMocks.MockAccountRepository, mDoc *repoMocks.MockDocumentRepository) {
				doc := activeDoc("doc1", "seller", 10)
				doc.IsActive = false
				mDoc.On("FindByID", ctx, "doc1").Return(doc, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "buyer not found",
			buyerID:    "ghost",
			documentID: "doc1",
			setupMocks: func(mAcc *repoMocks.MockAccountRepository, mDoc *repoMocks.MockDocumentRepository) {
				mDoc.On("FindByID", ctx, "doc1").Return(activeDoc("doc1", "seller", 10), nil)
				mAcc.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "seller record missing is an integrity fault",
			buyerID:    "buyer",
			documentID: "doc1",
			setupMocks: func(mAcc *repoMocks.MockAccountRepository, mDoc *repoMocks.MockDocumentRepository) {
				mDoc.On("FindByID", ctx, "doc1").Return(activeDoc("doc1", "vanished", 10), nil)
				mAcc.On("FindByID", ctx, "buyer").Return(account("buyer", 50), nil)
				mAcc.On("FindByID", ctx, "vanished").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrSellerMissing,
		},
		{
			name:       "missing ids",
			buyerID:    "",
			documentID: "doc1",
			setupMocks: func(mAcc *repoMocks.MockAccountRepository, mDoc *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mAcc, mDoc, mPur, svc := newPurchaseFixture()
			tt.setupMocks(mAcc, mDoc)

			res, err := svc.Purchase(ctx, tt.buyerID, tt.documentID)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			mPur.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			mAcc.AssertExpectations(t)
			mDoc.AssertExpectations(t)
		})
	}
}

func TestPurchaseService_Purchase_SnapshotsCurrentPrice(t *testing.T) {
	ctx := context.Background()
	mAcc, mDoc, mPur, svc := newPurchaseFixture()

	buyer := account("buyer", 100)
	seller := account("seller", 0)
	doc := activeDoc("doc1", "seller", 50)

	mDoc.On("FindByID", ctx, "doc1").Return(doc, nil)
	mAcc.On("FindByID", ctx, "buyer").Return(buyer, nil)
	mAcc.On("FindByID", ctx, "seller").Return(seller, nil)
	mAcc.On("Replace", ctx, mock.Anything).Return(nil)

	var recorded *model.Purchase
	mPur.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*model.Purchase) }).
		Return(func(ctx context.Context, p *model.Purchase) *model.Purchase { return p }, nil)

	_, err := svc.Purchase(ctx, "buyer", "doc1")
	require.NoError(t, err)
	require.NotNil(t, recorded)

	// A later price change must not retroactively alter the record.
	doc.PricePoints = 80
	assert.Equal(t, 50, recorded.PricePoints)
}

func TestPurchaseService_Purchase_AtomicFailurePropagates(t *testing.T) {
	ctx := context.Background()
	mDoc := new(repoMocks.MockDocumentRepository)
	mPur := new(repoMocks.MockPurchaseRepository)
	atomic := &repoMocks.PassthroughAtomic{Err: errors.New("tx begin failed")}
	svc := NewPurchaseService(mDoc, mPur, atomic)

	mDoc.On("FindByID", ctx, "doc1").Return(activeDoc("doc1", "seller", 10), nil)

	_, err := svc.Purchase(ctx, "buyer", "doc1")
	assert.EqualError(t, err, "tx begin failed")
}

func TestPurchaseService_ListMine(t *testing.T) {
	ctx := context.Background()

	t.Run("titles resolve and deleted documents read Unknown", func(t *testing.T) {
		_, mDoc, mPur, svc := newPurchaseFixture()

		when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		mPur.On("ListByBuyer", ctx, "buyer").Return([]model.Purchase{
			{ID: "p1", DocumentID: "doc1", BuyerID: "buyer", PricePoints: 10, PurchasedAt: when},
			{ID: "p2", DocumentID: "gone", BuyerID: "buyer", PricePoints: 25, PurchasedAt: when},
		}, nil)
		mDoc.On("FindByID", ctx, "doc1").Return(activeDoc("doc1", "seller", 10), nil)
		mDoc.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)

		out, err := svc.ListMine(ctx, "buyer")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "Guide", out[0].Title)
		assert.Equal(t, "Unknown", out[1].Title)
		assert.Equal(t, 25, out[1].PricePoints)
	})

	t.Run("empty history", func(t *testing.T) {
		_, _, mPur, svc := newPurchaseFixture()
		mPur.On("ListByBuyer", ctx, "buyer").Return([]model.Purchase{}, nil)

		out, err := svc.ListMine(ctx, "buyer")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("missing id", func(t *testing.T) {
		_, _, _, svc := newPurchaseFixture()
		_, err := svc.ListMine(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
