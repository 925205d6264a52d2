package verification

import (
	"bytes"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
	glog "github.com/magicsong/color-glog"
)

var armoredSignatureHeader = []byte("-----BEGIN PGP SIGNATURE-----")

// VerifyGPGSignature raises an error if signature is not a valid detached
// signature of data made by armoredKey. The signature may be armored or binary.
func VerifyGPGSignature(data, signature []byte, armoredKey string) error {
	key, err := crypto.NewKeyFromArmored(armoredKey)
	if err != nil {
		glog.Error(err)
		return err
	}
	keyRing, err := crypto.NewKeyRing(key)
	if err != nil {
		glog.Error(err)
		return err
	}
	glog.V(7).Infof("GPG keyring initialised for %s. Proceeding to load signature now!", key.GetFingerprint())

	var pgpSignature *crypto.PGPSignature
	if bytes.HasPrefix(bytes.TrimSpace(signature), armoredSignatureHeader) {
		pgpSignature, err = crypto.NewPGPSignatureFromArmored(string(signature))
		if err != nil {
			glog.Error(err)
			return err
		}
	} else {
		pgpSignature = crypto.NewPGPSignature(signature)
	}
	glog.V(7).Info("GPG signature read success!")

	message := crypto.NewPlainMessage(data)
	err = keyRing.VerifyDetached(message, pgpSignature, crypto.GetUnixTime())
	if err != nil {
		glog.Errorf("GPG verification failed with error %s", err)
		return err
	}
	glog.Info("GPG verification successful.")
	return nil
}
