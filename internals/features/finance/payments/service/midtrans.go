package service

import (
	"errors"
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

var snapClient snap.Client

// InitMidtrans menyiapkan klien Snap. Dipanggil sekali dari main.
func InitMidtrans(serverKey string) {
	if serverKey == "" {
		log.Println("[WARNING] MIDTRANS_SERVER_KEY kosong, checkout online tidak aktif")
		return
	}
	snapClient.New(serverKey, midtrans.Sandbox)
	log.Println("✅ Midtrans Snap client siap")
}

// CreateSnapTransaction membuat transaksi Snap untuk satu tagihan.
func CreateSnapTransaction(orderID string, grossAmount int64, customerName, customerEmail, itemName string) (*snap.Response, error) {
	if snapClient.ServerKey == "" {
		return nil, errors.New("midtrans belum dikonfigurasi")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customerName,
			Email: customerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Name:  itemName,
				Price: grossAmount,
				Qty:   1,
			},
		},
	}

	resp, errSnap := snapClient.CreateTransaction(req)
	if errSnap != nil {
		return nil, errSnap
	}
	return resp, nil
}
