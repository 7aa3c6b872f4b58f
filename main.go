package main

import (
	"bytes"
	"crypto/des"
	"crypto/rand"
	"fmt"
	"log"

	"github.com/ebfe/scard"

	"github.com/cardforge/piv-card/pkg/iso7816"
	"github.com/cardforge/piv-card/pkg/piv"
)

func main() {
	// --- 1. Hardware Setup ---
	ctx, card := connectToCard()

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Printf("Warning: Failed to release context: %v", err)
		}
	}()

	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			log.Printf("Warning: Failed to disconnect card: %v", err)
		}
	}()

	// --- 2. Logic Setup ---
	client := iso7816.NewClient(card)

	// --- 3. Execution Flow ---

	// Step 1: Select the PIV application. Nothing else works before this.
	if err := step1SelectApplication(client); err != nil {
		log.Fatalf("Step 1 failed: %v", err)
	}

	// Step 2: Read the device identity (serial number, firmware version).
	step2ReadIdentity(client)

	// Step 3: Read and parse the discovery object.
	step3ReadDiscovery(client)

	// Step 4: Query the PIN retry counter without spending an attempt.
	step4QueryPinRetries(client)

	// Step 5: Mutual authentication with the factory 3DES management key.
	step5AuthenticateManagementKey(client)

	fmt.Println("\n>> Demo Finished")
}

// =========================================================================
// Helper Functions
// =========================================================================

// connectToCard handles the PC/SC context establishment and reader connection.
func connectToCard() (*scard.Context, *scard.Card) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		log.Fatalf("Error establishing context: %s", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatal("No smart card reader found.")
	}

	fmt.Printf(">> Using reader: %s\n", readers[0])

	// Force T=0 or T=1 to avoid "Parameter Incorrect" errors (Error 57)
	card, err := ctx.Connect(readers[0], scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatalf("Error connecting to card: %s", err)
	}

	return ctx, card
}

// exchange builds a command, drives it through the client (61XX/6CXX
// handled there), prints the trace and reassembles the logical reply.
func exchange(client *iso7816.Client, cmd piv.Command) (*iso7816.ResponseAPDU, error) {
	apdu, err := cmd.Build()
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	trace, err := client.Send(apdu)
	if err != nil {
		return nil, fmt.Errorf("transmission failed: %w", err)
	}

	fmt.Println(trace.Describe())

	var body []byte
	for _, tx := range trace {
		if tx.Response != nil {
			body = append(body, tx.Response.Data...)
		}
	}

	return &iso7816.ResponseAPDU{Data: body, Status: trace.Last().Response.Status}, nil
}

func step1SelectApplication(client *iso7816.Client) error {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 1: SELECT PIV APPLICATION")
	fmt.Println("=============================================")

	raw, err := exchange(client, piv.SelectApplicationCommand{})
	if err != nil {
		return err
	}

	res, err := piv.NewSelectApplicationResponse(raw)
	if err != nil {
		return err
	}
	if res.Status() != piv.StatusSuccess {
		return fmt.Errorf("selection failed with status: %s", res.StatusWord().Verbose())
	}

	fci, err := res.GetData()
	if err != nil {
		return err
	}
	fmt.Printf(">> Application selected, property template: %X\n", fci)
	return nil
}

func step2ReadIdentity(client *iso7816.Client) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 2: DEVICE IDENTITY")
	fmt.Println("=============================================")

	if raw, err := exchange(client, piv.GetSerialNumberCommand{}); err == nil {
		if res, err := piv.NewGetSerialNumberResponse(raw); err == nil {
			if serial, err := res.GetData(); err == nil {
				fmt.Printf(">> Serial number: %d\n", serial)
			} else {
				fmt.Printf("(!) Serial number unavailable: %v\n", err)
			}
		}
	} else {
		log.Printf("(!) GET SERIAL NUMBER failed: %v", err)
	}

	if raw, err := exchange(client, piv.GetVersionCommand{}); err == nil {
		if res, err := piv.NewGetVersionResponse(raw); err == nil {
			if version, err := res.GetData(); err == nil {
				fmt.Printf(">> Firmware version: %s\n", version)
			} else {
				fmt.Printf("(!) Firmware version unavailable: %v\n", err)
			}
		}
	} else {
		log.Printf("(!) GET VERSION failed: %v", err)
	}
}

func step3ReadDiscovery(client *iso7816.Client) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 3: DISCOVERY OBJECT")
	fmt.Println("=============================================")

	raw, err := exchange(client, piv.GetDataCommand{Object: piv.ObjectDiscovery})
	if err != nil {
		log.Printf("(!) GET DATA failed: %v", err)
		return
	}

	res, err := piv.NewGetDataResponse(raw)
	if err != nil {
		log.Printf("(!) %v", err)
		return
	}
	if res.Status() == piv.StatusNoData {
		fmt.Println(">> Card carries no discovery object.")
		return
	}

	body, err := res.GetData()
	if err != nil {
		log.Printf("(!) %v", err)
		return
	}

	discovery, err := piv.ParseDiscoveryObject(body)
	if err != nil {
		log.Printf("(!) Failed to parse discovery object: %v", err)
		return
	}

	fmt.Printf(">> Application AID: %X\n", discovery.AID)
	fmt.Printf(">> Global PIN primary: %v\n", discovery.PrimaryPINIsGlobal())
}

func step4QueryPinRetries(client *iso7816.Client) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 4: PIN RETRY COUNTER (non-destructive)")
	fmt.Println("=============================================")

	// VERIFY without command data reports the counter without spending
	// an attempt.
	raw, err := exchange(client, piv.VerifyPinCommand{})
	if err != nil {
		log.Printf("(!) VERIFY failed: %v", err)
		return
	}

	res, err := piv.NewVerifyPinResponse(raw)
	if err != nil {
		log.Printf("(!) %v", err)
		return
	}

	retries, err := res.Retries()
	switch {
	case err != nil:
		log.Printf("(!) Retry counter unavailable: %v", err)
	case retries == nil:
		fmt.Println(">> Card reported no retry counter.")
	default:
		fmt.Printf(">> PIN retries remaining: %d\n", *retries)
	}
}

func step5AuthenticateManagementKey(client *iso7816.Client) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 5: MUTUAL MANAGEMENT KEY AUTH (3DES)")
	fmt.Println("=============================================")

	key := piv.DefaultManagementKey
	block, err := des.NewTripleDESCipher(key[:])
	if err != nil {
		log.Printf("(!) Cipher setup failed: %v", err)
		return
	}

	// Round 1: ask for a witness.
	raw, err := exchange(client, piv.InitializeAuthenticateManagementKeyCommand{
		Algorithm:  piv.Alg3DES,
		MutualAuth: true,
	})
	if err != nil {
		log.Printf("(!) Initialize failed: %v", err)
		return
	}

	initRes, err := piv.NewInitializeAuthenticateManagementKeyResponse(raw)
	if err != nil {
		log.Printf("(!) %v", err)
		return
	}

	mutual, witness, err := initRes.GetData()
	if err != nil {
		log.Printf("(!) Witness unavailable: %v", err)
		return
	}
	if !mutual || len(witness) != block.BlockSize() {
		log.Printf("(!) Card did not answer with a %d-byte witness", block.BlockSize())
		return
	}

	// Round 2: prove knowledge of the key and challenge the card back.
	decrypted := make([]byte, len(witness))
	block.Decrypt(decrypted, witness)

	challenge := make([]byte, block.BlockSize())
	if _, err := rand.Read(challenge); err != nil {
		log.Printf("(!) Challenge generation failed: %v", err)
		return
	}

	raw, err = exchange(client, piv.CompleteAuthenticateManagementKeyCommand{
		Algorithm:       piv.Alg3DES,
		WitnessResponse: decrypted,
		Challenge:       challenge,
	})
	if err != nil {
		log.Printf("(!) Complete failed: %v", err)
		return
	}

	completeRes, err := piv.NewCompleteAuthenticateManagementKeyResponse(raw)
	if err != nil {
		log.Printf("(!) %v", err)
		return
	}

	proof, err := completeRes.GetData()
	if err != nil {
		log.Printf("(!) Card proof unavailable: %v", err)
		return
	}

	// The card proves itself by encrypting our challenge.
	expected := make([]byte, len(challenge))
	block.Encrypt(expected, challenge)

	if bytes.Equal(proof, expected) {
		fmt.Println(">> Mutual authentication succeeded: card holds the management key.")
	} else {
		fmt.Println("(!) Card proof mismatch: card does NOT hold the expected key.")
	}
}
