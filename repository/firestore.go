package repository

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecocart/model"
)

type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) GetUser(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := f.get(ctx, f.client.Collection(UsersCollection).Doc(uid), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (f *Firestore) CreateUser(ctx context.Context, user *model.User) error {
	_, err := f.client.Collection(UsersCollection).Doc(user.UID).Set(ctx, user)
	return err
}

func (f *Firestore) ListProducts(ctx context.Context) ([]model.Product, error) {
	iter := f.client.Collection(ProductsCollection).Documents(ctx)
	defer iter.Stop()

	products := []model.Product{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var p model.Product
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		products = append(products, p)
	}
	return products, nil
}

func (f *Firestore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	ref := f.client.Collection(ProductsCollection).Doc(id)
	if err := f.get(ctx, ref, &p); err != nil {
		return nil, err
	}
	p.ID = ref.ID
	return &p, nil
}

func (f *Firestore) SaveProducts(ctx context.Context, products []model.Product) error {
	bw := f.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(products))
	for _, p := range products {
		job, err := bw.Set(f.client.Collection(ProductsCollection).Doc(p.ID), p)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}

func (f *Firestore) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	if err := f.get(ctx, f.client.Collection(CartsCollection).Doc(userID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (f *Firestore) UpdateCart(ctx context.Context, userID string, mutate CartMutation) (*model.Cart, error) {
	ref := f.client.Collection(CartsCollection).Doc(userID)
	var result *model.Cart

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		cart := model.NewPersonalCart(userID)
		exists := true
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			exists = false
		case err != nil:
			return err
		default:
			if err := snap.DataTo(cart); err != nil {
				return err
			}
		}

		if err := mutate(cart, exists); err != nil {
			return err
		}
		cart.Revision++
		result = cart
		return tx.Set(ref, cart)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Firestore) CreateGroupCart(ctx context.Context, cart *model.GroupCart) (*model.GroupCart, error) {
	wr, err := f.client.Collection(GroupCartsCollection).Doc(cart.ID).Create(ctx, cart)
	if status.Code(err) == codes.AlreadyExists {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	created := *cart
	if created.CreatedAt.IsZero() {
		// serverTimestamp resolves to the commit time of the write.
		created.CreatedAt = wr.UpdateTime
	}
	return &created, nil
}

func (f *Firestore) GetGroupCart(ctx context.Context, id string) (*model.GroupCart, error) {
	var cart model.GroupCart
	ref := f.client.Collection(GroupCartsCollection).Doc(id)
	if err := f.get(ctx, ref, &cart); err != nil {
		return nil, err
	}
	cart.ID = ref.ID
	return &cart, nil
}

func (f *Firestore) FindGroupCartByInviteCode(ctx context.Context, code string) (*model.GroupCart, error) {
	docs, err := f.client.Collection(GroupCartsCollection).
		Where("inviteCode", "==", code).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	var cart model.GroupCart
	if err := docs[0].DataTo(&cart); err != nil {
		return nil, err
	}
	cart.ID = docs[0].Ref.ID
	return &cart, nil
}

func (f *Firestore) ListGroupCartsByMember(ctx context.Context, userID string) ([]model.GroupCart, error) {
	docs, err := f.client.Collection(GroupCartsCollection).
		Where("members", "array-contains", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	carts := make([]model.GroupCart, 0, len(docs))
	for _, doc := range docs {
		var cart model.GroupCart
		if err := doc.DataTo(&cart); err != nil {
			return nil, fmt.Errorf("decode group cart %s: %w", doc.Ref.ID, err)
		}
		cart.ID = doc.Ref.ID
		carts = append(carts, cart)
	}
	sort.SliceStable(carts, func(i, j int) bool { return carts[i].CreatedAt.Before(carts[j].CreatedAt) })
	return carts, nil
}

func (f *Firestore) AddGroupCartMember(ctx context.Context, id, userID string) error {
	return f.update(ctx, f.client.Collection(GroupCartsCollection).Doc(id), []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(userID)},
	})
}

func (f *Firestore) RemoveGroupCartMember(ctx context.Context, id, userID string) error {
	return f.update(ctx, f.client.Collection(GroupCartsCollection).Doc(id), []firestore.Update{
		{Path: "members", Value: firestore.ArrayRemove(userID)},
	})
}

func (f *Firestore) UpdateGroupCartDetails(ctx context.Context, id, name, address string) error {
	return f.update(ctx, f.client.Collection(GroupCartsCollection).Doc(id), []firestore.Update{
		{Path: "name", Value: name},
		{Path: "address", Value: address},
	})
}

func (f *Firestore) UpdateGroupCart(ctx context.Context, id string, mutate GroupCartMutation) (*model.GroupCart, error) {
	ref := f.client.Collection(GroupCartsCollection).Doc(id)
	var result *model.GroupCart

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var cart model.GroupCart
		if err := snap.DataTo(&cart); err != nil {
			return err
		}
		cart.ID = ref.ID

		if err := mutate(&cart); err != nil {
			return err
		}
		cart.Revision++
		result = &cart
		return tx.Set(ref, &cart)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Firestore) DeleteGroupCart(ctx context.Context, id string) error {
	ref := f.client.Collection(GroupCartsCollection).Doc(id)
	_, err := ref.Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (f *Firestore) GetCredential(ctx context.Context, email string) (*model.Credential, error) {
	var cred model.Credential
	if err := f.get(ctx, f.client.Collection(CredentialsCollection).Doc(email), &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (f *Firestore) CreateCredential(ctx context.Context, cred *model.Credential) error {
	_, err := f.client.Collection(CredentialsCollection).Doc(cred.Email).Create(ctx, cred)
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	return err
}

func (f *Firestore) GetSession(ctx context.Context, userID string) (*model.Session, error) {
	var session model.Session
	if err := f.get(ctx, f.client.Collection(SessionsCollection).Doc(userID), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (f *Firestore) SaveSession(ctx context.Context, session *model.Session) error {
	_, err := f.client.Collection(SessionsCollection).Doc(session.UserID).Set(ctx, session)
	return err
}

func (f *Firestore) RevokeSession(ctx context.Context, userID string) error {
	_, err := f.client.Collection(SessionsCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"revoked": true,
	}, firestore.MergeAll)
	return err
}

func (f *Firestore) get(ctx context.Context, ref *firestore.DocumentRef, dst interface{}) error {
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return snap.DataTo(dst)
}

func (f *Firestore) update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	_, err := ref.Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}
