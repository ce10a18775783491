package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/ioprogress"

	"github.com/OhanaFS/quilt"
	"github.com/OhanaFS/quilt/payload"
)

var (
	splitCmd        = flag.NewFlagSet("split", flag.ExitOnError)
	splitInputFile  = splitCmd.String("input", "", "path to the input file")
	splitValidators = splitCmd.Int("validators", 10, "number of validators to code for")

	joinCmd        = flag.NewFlagSet("join", flag.ExitOnError)
	joinOutputFile = joinCmd.String("output", "", "path to the output file")
	joinValidators = joinCmd.Int("validators", 10, "number of validators the chunks were coded for")

	verifyCmd       = flag.NewFlagSet("verify", flag.ExitOnError)
	verifyRootHex   = verifyCmd.String("root", "", "commitment root as a hex string")
	verifyChunkFile = verifyCmd.String("chunk", "", "path to the chunk file")
	verifyProofFile = verifyCmd.String("proof", "", "path to the proof file")
	verifyIndex     = verifyCmd.Int("index", 0, "index of the chunk")
)

// Each subcommand pairs its flag set with the function that runs it.
var subcommands = map[string]struct {
	flags *flag.FlagSet
	run   func() int
}{
	splitCmd.Name():  {splitCmd, runSplitCmd},
	joinCmd.Name():   {joinCmd, runJoinCmd},
	verifyCmd.Name(): {verifyCmd, runVerifyCmd},
}

func chunkName(base string, index int) string {
	return base + ".chunk" + strconv.Itoa(index)
}

func proofName(base string, index int) string {
	return base + ".proof" + strconv.Itoa(index)
}

// writeProof stores proof nodes as a sequence of length-prefixed blobs.
func writeProof(name string, proof [][]byte) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()

	prefix := make([]byte, 4)
	for _, node := range proof {
		binary.LittleEndian.PutUint32(prefix, uint32(len(node)))
		if _, err := file.Write(prefix); err != nil {
			return err
		}
		if _, err := file.Write(node); err != nil {
			return err
		}
	}
	return nil
}

func readProof(name string) ([][]byte, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var proof [][]byte
	prefix := make([]byte, 4)
	for {
		if _, err := io.ReadFull(file, prefix); err != nil {
			if err == io.EOF {
				return proof, nil
			}
			return nil, err
		}
		node := make([]byte, binary.LittleEndian.Uint32(prefix))
		if _, err := io.ReadFull(file, node); err != nil {
			return nil, err
		}
		proof = append(proof, node)
	}
}

func runSplitCmd() int {
	if *splitInputFile == "" {
		log.Fatalln("You must specify -input.")
	}

	// Open the input file
	file, err := os.Open(*splitInputFile)
	if err != nil {
		log.Fatalln("Failed to open file:", err)
	}
	defer file.Close()

	// Set up progress bar
	stat, err := file.Stat()
	if err != nil {
		log.Fatalln("Failed to stat file:", err)
	}
	progressReader := &ioprogress.Reader{
		Reader: file,
		Size:   stat.Size(),
	}

	data, err := io.ReadAll(progressReader)
	if err != nil {
		log.Fatalln("Failed to read file:", err)
	}

	// Encode the file into one chunk per validator
	log.Println("Encoding chunks...")
	chunks, err := quilt.ObtainChunks(*splitValidators, payload.BlockData(data), payload.Extrinsic{})
	if err != nil {
		log.Fatalln("Failed to obtain chunks:", err)
	}

	// Commit to the chunks and write them out with their proofs
	branches := quilt.MakeBranches(chunks)
	for i, chunk := range chunks {
		if err := os.WriteFile(chunkName(*splitInputFile, i), chunk, 0644); err != nil {
			log.Fatalf("Failed to write chunk %d: %s\n", i, err)
		}

		proof, err := branches.Proof(i)
		if err != nil {
			log.Fatalf("Failed to prove chunk %d: %s\n", i, err)
		}
		if err := writeProof(proofName(*splitInputFile, i), proof); err != nil {
			log.Fatalf("Failed to write proof %d: %s\n", i, err)
		}
	}

	log.Println("Root:", branches.Root().Hex())
	log.Println("Done.")
	return 0
}

func runJoinCmd() int {
	if *joinOutputFile == "" {
		log.Fatalln("You must specify -output.")
	}

	// Gather whichever chunk files are present
	var chunks []quilt.Chunk
	for i := 0; i < *joinValidators; i++ {
		data, err := os.ReadFile(chunkName(*joinOutputFile, i))
		if err != nil {
			if os.IsNotExist(err) {
				log.Printf("Warn: Missing chunk %d\n", i)
				continue
			}
			log.Fatalf("Failed to read chunk %d: %s\n", i, err)
		}
		chunks = append(chunks, quilt.Chunk{Data: data, Index: i})
	}

	// Decode the chunks back into the original file
	log.Println("Reconstructing...")
	data, _, err := quilt.Reconstruct(*joinValidators, chunks)
	if err != nil {
		log.Fatalln("Failed to reconstruct:", err)
	}

	if err := os.WriteFile(*joinOutputFile, data, 0644); err != nil {
		log.Fatalln("Failed to write output file:", err)
	}

	log.Println("Done.")
	return 0
}

func runVerifyCmd() int {
	if *verifyRootHex == "" || *verifyChunkFile == "" || *verifyProofFile == "" {
		log.Fatalln("You must specify -root, -chunk and -proof.")
	}

	chunk, err := os.ReadFile(*verifyChunkFile)
	if err != nil {
		log.Fatalln("Failed to read chunk:", err)
	}
	proof, err := readProof(*verifyProofFile)
	if err != nil {
		log.Fatalln("Failed to read proof:", err)
	}

	root := common.HexToHash(*verifyRootHex)
	committed, err := quilt.BranchHash(root, proof, *verifyIndex)
	if err != nil {
		log.Fatalln("Proof did not verify:", err)
	}

	if committed != quilt.ChunkHash(chunk) {
		log.Fatalln("Chunk hash does not match the committed hash.")
	}

	log.Println("Chunk verified against root.")
	return 0
}

func usage() {
	names := make([]string, 0, len(subcommands))
	for name := range subcommands {
		names = append(names, name)
	}
	log.Fatalf("usage: quilt <subcommand> [flags], where <subcommand> is one of %v", names)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd, ok := subcommands[os.Args[1]]
	if !ok {
		usage()
	}

	cmd.flags.Parse(os.Args[2:])
	os.Exit(cmd.run())
}
