package repository

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type callbackDocument struct {
	OrderRef  *uint64   `bson:"order_ref,omitempty"`
	Gateway   string    `bson:"gateway"`
	ReturnOid string    `bson:"return_oid"`
	Response  string    `bson:"response"`
	Payload   string    `bson:"payload"`
	Status    string    `bson:"status"`
	Error     *string   `bson:"error,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// CallbackJournal archives inbound bank callbacks in MongoDB. A journal
// without a collection accepts and drops every record.
type CallbackJournal struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewCallbackJournal(collection *mongo.Collection, timeout time.Duration) *CallbackJournal {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CallbackJournal{collection: collection, timeout: timeout}
}

// ConnectMongo opens a client and checks the server is reachable.
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func (j *CallbackJournal) Enabled() bool {
	return j != nil && j.collection != nil
}

func (j *CallbackJournal) Append(ctx context.Context, callback *entity.PaymentCallback) error {
	if !j.Enabled() || callback == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	status := "processed"
	if callback.Status == entity.PaymentCallbackRejected {
		status = "rejected"
	}

	_, err := j.collection.InsertOne(ctx, callbackDocument{
		OrderRef:  callback.OrderRef,
		Gateway:   callback.Gateway,
		ReturnOid: callback.ReturnOid,
		Response:  callback.Response,
		Payload:   callback.PayloadJSON,
		Status:    status,
		Error:     callback.Error,
		CreatedAt: callback.CreatedAt,
	})
	return err
}
